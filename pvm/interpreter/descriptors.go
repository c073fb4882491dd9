package interpreter

import "github.com/colorfulnotion/jampvm/pvm/program"

// descriptors enumerates the instruction set (GP Appendix A.5). The registry
// is built once from this list.
func descriptors() []Descriptor {
	return []Descriptor{
		// A.5.1. Instructions without Arguments.
		term(program.TRAP, evalTrap),
		term(program.FALLTHROUGH, evalFallthrough),

		// A.5.2. Instructions with Arguments of One Immediate.
		op(program.ECALLI, evalEcalli),

		// A.5.3. Instructions with Arguments of One Register and One Extended Width Immediate.
		op(program.LOAD_IMM_64, evalLoadImm),

		// A.5.4. Instructions with Arguments of Two Immediates.
		op(program.STORE_IMM_U8, storeImm(1)),
		op(program.STORE_IMM_U16, storeImm(2)),
		op(program.STORE_IMM_U32, storeImm(4)),
		op(program.STORE_IMM_U64, storeImm(8)),

		// A.5.5. Instructions with Arguments of One Offset.
		term(program.JUMP, evalJump),

		// A.5.6. Instructions with Arguments of One Register & One Immediate.
		term(program.JUMP_IND, evalJumpInd),
		op(program.LOAD_IMM, evalLoadImm),
		op(program.LOAD_U8, loadDirect(1, false)),
		op(program.LOAD_I8, loadDirect(1, true)),
		op(program.LOAD_U16, loadDirect(2, false)),
		op(program.LOAD_I16, loadDirect(2, true)),
		op(program.LOAD_U32, loadDirect(4, false)),
		op(program.LOAD_I32, loadDirect(4, true)),
		op(program.LOAD_U64, loadDirect(8, false)),
		op(program.STORE_U8, storeDirect(1)),
		op(program.STORE_U16, storeDirect(2)),
		op(program.STORE_U32, storeDirect(4)),
		op(program.STORE_U64, storeDirect(8)),

		// A.5.7. Instructions with Arguments of One Register & Two Immediates.
		op(program.STORE_IMM_IND_U8, storeImmInd(1)),
		op(program.STORE_IMM_IND_U16, storeImmInd(2)),
		op(program.STORE_IMM_IND_U32, storeImmInd(4)),
		op(program.STORE_IMM_IND_U64, storeImmInd(8)),

		// A.5.8. Instructions with Arguments of One Register, One Immediate and One Offset.
		term(program.LOAD_IMM_JUMP, evalLoadImmJump),
		term(program.BRANCH_EQ_IMM, branchImm(eq)),
		term(program.BRANCH_NE_IMM, branchImm(ne)),
		term(program.BRANCH_LT_U_IMM, branchImm(ltU)),
		term(program.BRANCH_LE_U_IMM, branchImm(leU)),
		term(program.BRANCH_GE_U_IMM, branchImm(geU)),
		term(program.BRANCH_GT_U_IMM, branchImm(gtU)),
		term(program.BRANCH_LT_S_IMM, branchImm(ltS)),
		term(program.BRANCH_LE_S_IMM, branchImm(leS)),
		term(program.BRANCH_GE_S_IMM, branchImm(geS)),
		term(program.BRANCH_GT_S_IMM, branchImm(gtS)),

		// A.5.9. Instructions with Arguments of Two Registers.
		op(program.MOVE_REG, unary(identity)),
		op(program.SBRK, evalSbrk),
		op(program.COUNT_SET_BITS_64, unary(popcount64)),
		op(program.COUNT_SET_BITS_32, unary(popcount32)),
		op(program.LEADING_ZERO_BITS_64, unary(clz64)),
		op(program.LEADING_ZERO_BITS_32, unary(clz32)),
		op(program.TRAILING_ZERO_BITS_64, unary(ctz64)),
		op(program.TRAILING_ZERO_BITS_32, unary(ctz32)),
		op(program.SIGN_EXTEND_8, unary(signExtend8)),
		op(program.SIGN_EXTEND_16, unary(signExtend16)),
		op(program.ZERO_EXTEND_16, unary(zeroExtend16)),
		op(program.REVERSE_BYTES, unary(reverseBytes)),

		// A.5.10. Instructions with Arguments of Two Registers & One Immediate.
		op(program.STORE_IND_U8, storeInd(1)),
		op(program.STORE_IND_U16, storeInd(2)),
		op(program.STORE_IND_U32, storeInd(4)),
		op(program.STORE_IND_U64, storeInd(8)),
		op(program.LOAD_IND_U8, loadInd(1, false)),
		op(program.LOAD_IND_I8, loadInd(1, true)),
		op(program.LOAD_IND_U16, loadInd(2, false)),
		op(program.LOAD_IND_I16, loadInd(2, true)),
		op(program.LOAD_IND_U32, loadInd(4, false)),
		op(program.LOAD_IND_I32, loadInd(4, true)),
		op(program.LOAD_IND_U64, loadInd(8, false)),
		op(program.ADD_IMM_32, regImm(add32)),
		op(program.AND_IMM, regImm(and)),
		op(program.XOR_IMM, regImm(xor)),
		op(program.OR_IMM, regImm(or)),
		op(program.MUL_IMM_32, regImm(mul32)),
		op(program.SET_LT_U_IMM, regImm(setLtU)),
		op(program.SET_LT_S_IMM, regImm(setLtS)),
		op(program.SHLO_L_IMM_32, regImm(shloL32)),
		op(program.SHLO_R_IMM_32, regImm(shloR32)),
		op(program.SHAR_R_IMM_32, regImm(sharR32)),
		op(program.NEG_ADD_IMM_32, regImm(negAdd32)),
		op(program.SET_GT_U_IMM, regImm(setGtU)),
		op(program.SET_GT_S_IMM, regImm(setGtS)),
		op(program.SHLO_L_IMM_ALT_32, regImmAlt(shloL32)),
		op(program.SHLO_R_IMM_ALT_32, regImmAlt(shloR32)),
		op(program.SHAR_R_IMM_ALT_32, regImmAlt(sharR32)),
		op(program.CMOV_IZ_IMM, cmovImm(true)),
		op(program.CMOV_NZ_IMM, cmovImm(false)),
		op(program.ADD_IMM_64, regImm(add64)),
		op(program.MUL_IMM_64, regImm(mul64)),
		op(program.SHLO_L_IMM_64, regImm(shloL64)),
		op(program.SHLO_R_IMM_64, regImm(shloR64)),
		op(program.SHAR_R_IMM_64, regImm(sharR64)),
		op(program.NEG_ADD_IMM_64, regImm(negAdd64)),
		op(program.SHLO_L_IMM_ALT_64, regImmAlt(shloL64)),
		op(program.SHLO_R_IMM_ALT_64, regImmAlt(shloR64)),
		op(program.SHAR_R_IMM_ALT_64, regImmAlt(sharR64)),
		op(program.ROT_R_64_IMM, regImm(rotR64)),
		op(program.ROT_R_64_IMM_ALT, regImmAlt(rotR64)),
		op(program.ROT_R_32_IMM, regImm(rotR32)),
		op(program.ROT_R_32_IMM_ALT, regImmAlt(rotR32)),

		// A.5.11. Instructions with Arguments of Two Registers & One Offset.
		term(program.BRANCH_EQ, branchReg(eq)),
		term(program.BRANCH_NE, branchReg(ne)),
		term(program.BRANCH_LT_U, branchReg(ltU)),
		term(program.BRANCH_LT_S, branchReg(ltS)),
		term(program.BRANCH_GE_U, branchReg(geU)),
		term(program.BRANCH_GE_S, branchReg(geS)),

		// A.5.12. Instruction with Arguments of Two Registers and Two Immediates.
		term(program.LOAD_IMM_JUMP_IND, evalLoadImmJumpInd),

		// A.5.13. Instructions with Arguments of Three Registers.
		op(program.ADD_32, regReg(add32)),
		op(program.SUB_32, regReg(sub32)),
		op(program.MUL_32, regReg(mul32)),
		op(program.DIV_U_32, regReg(divU32)),
		op(program.DIV_S_32, regReg(divS32)),
		op(program.REM_U_32, regReg(remU32)),
		op(program.REM_S_32, regReg(remS32)),
		op(program.SHLO_L_32, regReg(shloL32)),
		op(program.SHLO_R_32, regReg(shloR32)),
		op(program.SHAR_R_32, regReg(sharR32)),
		op(program.ADD_64, regReg(add64)),
		op(program.SUB_64, regReg(sub64)),
		op(program.MUL_64, regReg(mul64)),
		op(program.DIV_U_64, regReg(divU64)),
		op(program.DIV_S_64, regReg(divS64)),
		op(program.REM_U_64, regReg(remU64)),
		op(program.REM_S_64, regReg(remS64)),
		op(program.SHLO_L_64, regReg(shloL64)),
		op(program.SHLO_R_64, regReg(shloR64)),
		op(program.SHAR_R_64, regReg(sharR64)),
		op(program.AND, regReg(and)),
		op(program.XOR, regReg(xor)),
		op(program.OR, regReg(or)),
		op(program.MUL_UPPER_S_S, regReg(mulUpper(true, true))),
		op(program.MUL_UPPER_U_U, regReg(mulUpper(false, false))),
		op(program.MUL_UPPER_S_U, regReg(mulUpper(true, false))),
		op(program.SET_LT_U, regReg(setLtU)),
		op(program.SET_LT_S, regReg(setLtS)),
		op(program.CMOV_IZ, cmov(true)),
		op(program.CMOV_NZ, cmov(false)),
		op(program.ROT_L_64, regReg(rotL64)),
		op(program.ROT_L_32, regReg(rotL32)),
		op(program.ROT_R_64, regReg(rotR64)),
		op(program.ROT_R_32, regReg(rotR32)),
		op(program.AND_INV, regReg(andInv)),
		op(program.OR_INV, regReg(orInv)),
		op(program.XNOR, regReg(xnor)),
		op(program.MAX, regReg(maxS)),
		op(program.MAX_U, regReg(maxU)),
		op(program.MIN, regReg(minS)),
		op(program.MIN_U, regReg(minU)),
	}
}
