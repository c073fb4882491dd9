// Package invocation drives the interpreter through host calls and wraps
// whole-program invocations: a raw blob run and the argument invocation over
// the standard program layout.
package invocation

import (
	"context"
	"fmt"

	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/pvm/interpreter"
	"github.com/colorfulnotion/jampvm/pvm/memory"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/colorfulnotion/jampvm/pvm/invocation"

// HostFunction services host call id on the suspended context. It returns
// Continue to resume execution, or the reason the invocation stops. An error
// is reserved for failures of the host itself and aborts the invocation.
type HostFunction[X any] func(id uint32, ctx *interpreter.Context, x *X) (pvmtypes.ExitReason, error)

// programs caches decoded blobs shared by RunBlob callers.
var programs = mustCache(program.DefaultCacheSize)

func mustCache(size int) *program.Cache {
	c, err := program.NewCache(size)
	if err != nil {
		panic(err)
	}
	return c
}

// Runner executes vm until it stops. An error aborts the invocation.
type Runner func(vm *interpreter.Context) (pvmtypes.ExitReason, error)

func interpret(vm *interpreter.Context) (pvmtypes.ExitReason, error) {
	return interpreter.Run(vm), nil
}

// HostCallLoop runs vm, dispatching every host call to f, until the machine
// halts, panics, runs out of gas, faults or f stops it.
func HostCallLoop[X any](ctx context.Context, vm *interpreter.Context, f HostFunction[X], x *X) (pvmtypes.ExitReason, error) {
	return HostCallLoopWith(ctx, vm, f, x, interpret)
}

// HostCallLoopWith is HostCallLoop with run executing the machine between
// host calls, so a caller can observe every instruction.
func HostCallLoopWith[X any](ctx context.Context, vm *interpreter.Context, f HostFunction[X], x *X, run Runner) (pvmtypes.ExitReason, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pvm.invoke", trace.WithAttributes(
		attribute.Int64("pvm.gas.initial", vm.Gas),
		attribute.Int64("pvm.pc.initial", int64(vm.PC)),
	))
	defer span.End()

	var hostCalls int64
	exit, err := func() (pvmtypes.ExitReason, error) {
		for {
			exit, err := run(vm)
			if err != nil || exit.Kind != pvmtypes.ExitHostCall {
				return exit, err
			}
			if err := ctx.Err(); err != nil {
				return exit, err
			}
			hostCalls++
			log.Debug(log.PvmHost, "host call", "id", exit.HostCall, "fn", pvmtypes.HostFnToName(exit.HostCall), "pc", vm.PC, "gas", vm.Gas)

			next, err := f(exit.HostCall, vm, x)
			if err != nil {
				return pvmtypes.Panic(), fmt.Errorf("host call %d (%s): %w", exit.HostCall, pvmtypes.HostFnToName(exit.HostCall), err)
			}
			if next.Stops() {
				return next, nil
			}
		}
	}()

	span.SetAttributes(
		attribute.String("pvm.exit", exit.String()),
		attribute.Int64("pvm.gas.remaining", vm.Gas),
		attribute.Int64("pvm.host_calls", hostCalls),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return exit, err
}

// RunBlob decodes blob and runs it from pc. A blob that fails to decode
// panics the machine without executing anything; the returned context then
// has no program.
func RunBlob[X any](ctx context.Context, blob []byte, pc uint32, gas int64, regs [interpreter.NumRegisters]uint64, mem memory.Memory, f HostFunction[X], x *X) (*interpreter.Context, pvmtypes.ExitReason, error) {
	prog, err := programs.Get(blob)
	if err != nil {
		log.Debug(log.PvmHost, "program blob rejected", "err", err)
		return interpreter.NewContext(nil, mem, gas, regs), pvmtypes.Panic(), nil
	}
	vm := interpreter.NewContext(prog, mem, gas, regs)
	vm.PC = pc
	exit, err := HostCallLoop(ctx, vm, f, x)
	return vm, exit, err
}

// Outcome is the result of an argument invocation. Exit is Halt, Panic or
// OutOfGas; Output is only set for Halt.
type Outcome struct {
	GasUsed int64
	Exit    pvmtypes.ExitReason
	Output  []byte
}

func (o Outcome) String() string {
	if o.Exit.Kind == pvmtypes.ExitHalt {
		return fmt.Sprintf("halt gas_used=%d output=0x%x", o.GasUsed, o.Output)
	}
	return fmt.Sprintf("%s gas_used=%d", o.Exit, o.GasUsed)
}

// ArgumentInvocation initializes blob in the standard layout with args and
// runs it from pc. x is threaded through every host call.
func ArgumentInvocation[X any](ctx context.Context, blob []byte, pc uint32, gas int64, args []byte, f HostFunction[X], x *X) (Outcome, error) {
	sp, err := program.DecodeStandard(blob, args)
	if err != nil {
		log.Debug(log.PvmHost, "standard program rejected", "err", err)
		return Outcome{Exit: pvmtypes.Panic()}, nil
	}
	vm := interpreter.NewContext(sp.Program, sp.Memory, gas, sp.Registers)
	vm.PC = pc
	exit, err := HostCallLoop(ctx, vm, f, x)
	if err != nil {
		return Outcome{}, err
	}
	return result(gas, vm, exit), nil
}

// result maps the final machine state onto an outcome: used gas never
// counts an overdraft, a halt yields mem[r7 .. r7+r8) when readable and
// nothing otherwise, and every other stop is a panic.
func result(gas int64, vm *interpreter.Context, exit pvmtypes.ExitReason) Outcome {
	out := Outcome{GasUsed: gas - max(vm.Gas, 0)}
	switch exit.Kind {
	case pvmtypes.ExitOutOfGas:
		out.Exit = pvmtypes.OutOfGas()
	case pvmtypes.ExitHalt:
		out.Exit = pvmtypes.Halt()
		out.Output = []byte{}
		addr, n := vm.Registers[7], vm.Registers[8]
		if addr>>32 != 0 || n>>32 != 0 || !vm.Memory.Readable(uint32(addr), uint32(n)) {
			break
		}
		b, err := vm.Memory.GetBytes(uint32(addr), uint32(n))
		if err == nil {
			out.Output = b
		}
	default:
		out.Exit = pvmtypes.Panic()
	}
	return out
}
