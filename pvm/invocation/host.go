package invocation

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/pvm/interpreter"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
)

// HostCallGas is charged for every host call before it is serviced.
const HostCallGas int64 = 10

// DefaultHostFunctions services the general host functions GAS and LOG.
func DefaultHostFunctions[X any]() HostFunction[X] {
	return Dispatch(map[uint32]HostFunction[X]{
		pvmtypes.GAS: hostGas[X],
		pvmtypes.LOG: hostLog[X],
	})
}

// Dispatch routes host calls through table by id. Every call is charged
// HostCallGas first; unknown ids write WHAT to r7 and continue.
func Dispatch[X any](table map[uint32]HostFunction[X]) HostFunction[X] {
	return func(id uint32, vm *interpreter.Context, x *X) (pvmtypes.ExitReason, error) {
		vm.Gas -= HostCallGas
		if vm.Gas < 0 {
			return pvmtypes.OutOfGas(), nil
		}
		fn, ok := table[id]
		if !ok {
			log.Debug(log.PvmHost, "unknown host call", "id", id)
			vm.SetReg(7, pvmtypes.WHAT)
			return pvmtypes.Continue(), nil
		}
		return fn(id, vm, x)
	}
}

// hostGas writes the gas left after the call into r7.
func hostGas[X any](id uint32, vm *interpreter.Context, x *X) (pvmtypes.ExitReason, error) {
	vm.SetReg(7, uint64(vm.Gas))
	return pvmtypes.Continue(), nil
}

// hostLog follows JIP-1: r7 level, r8/r9 target, r10/r11 message.
func hostLog[X any](id uint32, vm *interpreter.Context, x *X) (pvmtypes.ExitReason, error) {
	level := vm.Reg(7)
	msg, ok := readGuest(vm, vm.Reg(10), vm.Reg(11))
	if !ok {
		vm.SetReg(7, pvmtypes.OOB)
		return pvmtypes.Continue(), nil
	}
	var target []byte
	if vm.Reg(8) != 0 || vm.Reg(9) != 0 {
		if target, ok = readGuest(vm, vm.Reg(8), vm.Reg(9)); !ok {
			vm.SetReg(7, pvmtypes.OOB)
			return pvmtypes.Continue(), nil
		}
	}

	name := logLevelName(level)
	if len(target) > 0 {
		name = fmt.Sprintf("%s#%s", name, target)
	}
	switch level {
	case 0:
		log.Error(log.PvmHost, name, "m", string(msg))
	case 1:
		log.Warn(log.PvmHost, name, "m", string(msg))
	case 2:
		log.Info(log.PvmHost, name, "m", string(msg))
	case 3:
		log.Debug(log.PvmHost, name, "m", string(msg))
	default:
		log.Trace(log.PvmHost, name, "m", string(msg))
	}
	return pvmtypes.Continue(), nil
}

func logLevelName(level uint64) string {
	switch level {
	case 0:
		return "FATAL"
	case 1:
		return "WARN"
	case 2:
		return "INFO"
	case 3:
		return "DEBUG"
	}
	return "TRACE"
}

// readGuest reads n bytes at addr, failing for ranges that do not fit the
// 32-bit address space or are not readable.
func readGuest(vm *interpreter.Context, addr, n uint64) ([]byte, bool) {
	if addr>>32 != 0 || n>>32 != 0 {
		return nil, false
	}
	b, err := vm.Memory.GetBytes(uint32(addr), uint32(n))
	if err != nil {
		return nil, false
	}
	return b, true
}
