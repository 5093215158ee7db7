// Copyright (c) 2013-2018 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"strings"
)

const (
	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 10000

	// MaxScriptElementSize is the maximum number of bytes allowed in a
	// single stack element.
	MaxScriptElementSize = 520

	// MaxOpsPerScript is the maximum number of non-push operations a
	// script may execute, counting each public key of a multisig.
	MaxOpsPerScript = 201

	// MaxStackSize is the maximum combined height of the data and
	// alternate stacks during execution.
	MaxStackSize = 1000

	// MaxPubKeysPerMultiSig is the maximum number of public keys allowed
	// in a multi-signature transaction output script.
	MaxPubKeysPerMultiSig = 20
)

// ScriptExecutionMetrics accumulates the measurements taken while executing
// scripts.  SigChecks counts the signature verifications performed, which is
// what the per-input, per-transaction and per-block density limits are
// expressed in.
type ScriptExecutionMetrics struct {
	SigChecks int
}

// engineConfig holds the settings adjustable through EngineOption.
type engineConfig struct {
	bigIntSize int
}

// EngineOption customizes the script engine.
type EngineOption func(*engineConfig)

// WithBigIntSize sets the maximum width, in bytes, of numeric operands and
// results when ScriptVerifyBigIntegers is set.  It has no effect otherwise.
// The default is DefaultBigIntScriptNumLen.
func WithBigIntSize(size int) EngineOption {
	return func(cfg *engineConfig) {
		cfg.bigIntSize = size
	}
}

// Engine is the virtual machine that executes a single script against a data
// stack.
type Engine struct {
	// flags specifies the additional flags which modify the execution
	// behavior of the engine.
	flags ScriptFlags

	// regime holds the numeric rules selected by the flags.
	regime *numericRegime

	// checker performs the signature and lock time checks which depend on
	// the transaction the script is executed for.
	checker SignatureChecker

	// metrics accumulates the signature checks performed.
	metrics *ScriptExecutionMetrics

	// script is the script being executed and tokenizer is the position of
	// the program counter within it.
	script    []byte
	tokenizer ScriptTokenizer

	// lastCodeSep specifies the position within the script of the most
	// recently executed OP_CODESEPARATOR, which is the start of the script
	// code covered by signatures.
	lastCodeSep int32

	dstack    stack // data stack
	astack    stack // alt stack
	condStack conditionStack
	numOps    int
}

// hasFlag returns whether the script engine instance has the passed flag set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.  For example, when the data stack has an OP_FALSE on it
// and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered.  It properly handles nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	return vm.condStack.allTrue()
}

// requireDepth returns an error when the data stack holds fewer than n items.
func (vm *Engine) requireDepth(op *opcode, n int) error {
	if vm.dstack.Depth() < n {
		return underflow(op.name, n, vm.dstack.Depth())
	}
	return nil
}

// subScript returns the script since the last OP_CODESEPARATOR.
func (vm *Engine) subScript() []byte {
	return vm.script[vm.lastCodeSep:]
}

// isConditionalOpcode returns whether the opcode is one of the opcodes which
// are executed even on non-executing branches so nesting is maintained.  Note
// that OP_VERIF and OP_VERNOTIF are in the range and therefore fail even on
// non-executing branches.
func isConditionalOpcode(opcode byte) bool {
	return opcode >= OP_IF && opcode <= OP_ENDIF
}

// checkMinimalDataPush returns whether or not the provided opcode is the
// smallest possible way to represent the given data.  For example, the value 15
// could be pushed with OP_DATA_1 15 (among other variations); however, OP_15 is
// a single opcode that represents the same value and is only a single byte
// versus two bytes.
func checkMinimalDataPush(op *opcode, data []byte) error {
	opcodeVal := op.value
	dataLen := len(data)
	switch {
	case dataLen == 0 && opcodeVal != OP_0:
		str := fmt.Sprintf("zero length data push is encoded with opcode "+
			"%s instead of OP_0", op.name)
		return scriptError(ErrMinimalData, str)
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		if opcodeVal != OP_1+data[0]-1 {
			// Should have used OP_1 .. OP_16
			str := fmt.Sprintf("data push of the value %d encoded with "+
				"opcode %s instead of OP_%d", data[0], op.name, data[0])
			return scriptError(ErrMinimalData, str)
		}
	case dataLen == 1 && data[0] == 0x81:
		if opcodeVal != OP_1NEGATE {
			str := fmt.Sprintf("data push of the value -1 encoded with "+
				"opcode %s instead of OP_1NEGATE", op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 75:
		if int(opcodeVal) != dataLen {
			// Should have used a direct push
			str := fmt.Sprintf("data push of %d bytes encoded with opcode "+
				"%s instead of OP_DATA_%d", dataLen, op.name, dataLen)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 255:
		if opcodeVal != OP_PUSHDATA1 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode "+
				"%s instead of OP_PUSHDATA1", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 65535:
		if opcodeVal != OP_PUSHDATA2 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode "+
				"%s instead of OP_PUSHDATA2", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	}
	return nil
}

// executeOpcode performs execution on the passed opcode.  It takes into
// account whether or not it is hidden by conditionals, but some rules still
// must be tested in this case.
func (vm *Engine) executeOpcode(op *opcode, data []byte) error {
	// The size of pushed data is limited even on non-executing branches.
	if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(data), MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}

	// OP_RESERVED sorts below OP_16 and counts as a push operation.
	if op.value > OP_16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return scriptError(ErrOpCount, str)
		}
	}

	// Disabled opcodes fail on program counter.
	if isOpcodeDisabled(op.value, vm.flags) {
		str := fmt.Sprintf("attempt to execute disabled opcode %s",
			op.name)
		return scriptError(ErrDisabledOpcode, str)
	}

	executing := vm.isBranchExecuting()
	if op.value <= OP_PUSHDATA4 {
		// Nothing left to do for data pushes on non-executing branches.
		if !executing {
			return nil
		}

		// Ensure all executed data push opcodes use the minimal encoding
		// when the minimal data verification flag is set.
		if vm.dstack.verifyMinimalData {
			if err := checkMinimalDataPush(op, data); err != nil {
				return err
			}
		}
		return op.opfunc(op, data, vm)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !executing && !isConditionalOpcode(op.value) {
		return nil
	}

	return op.opfunc(op, data, vm)
}

// Execute will execute the script in the script engine and return either nil
// for successful execution or an error if one occurred.  Successful execution
// says nothing about the final stack, which is evaluated by the caller.
func (vm *Engine) Execute() error {
	for vm.tokenizer.Next() {
		op := &opcodeArray[vm.tokenizer.Opcode()]
		data := vm.tokenizer.Data()

		log.Tracef("%v", newLogClosure(func() string {
			var buf strings.Builder
			disasmOpcode(&buf, op, data, false)
			return fmt.Sprintf("stepping %04x: %s",
				vm.tokenizer.ByteIndex(), buf.String())
		}))

		if err := vm.executeOpcode(op, data); err != nil {
			return err
		}

		// The number of elements in the combination of the data and
		// alt stacks must not exceed the maximum.
		combinedStackSize := vm.dstack.Depth() + vm.astack.Depth()
		if combinedStackSize > MaxStackSize {
			str := fmt.Sprintf("combined stack size %d > max allowed %d",
				combinedStackSize, MaxStackSize)
			return scriptError(ErrStackSize, str)
		}

		log.Tracef("%v", newLogClosure(func() string {
			var dstr, astr string

			// Dump the stacks when tracing.
			if vm.dstack.Depth() != 0 {
				dstr = "Stack:\n" + vm.dstack.String()
			}
			if vm.astack.Depth() != 0 {
				astr = "AltStack:\n" + vm.astack.String()
			}

			return dstr + astr
		}))
	}
	if err := vm.tokenizer.Err(); err != nil {
		return err
	}

	// Illegal to have a conditional that is not closed by the end of the
	// script.
	if !vm.condStack.empty() {
		str := "end of script reached in conditional execution"
		return scriptError(ErrUnbalancedConditional, str)
	}
	return nil
}

// GetStack returns the contents of the data stack as an array where the last
// item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	array := make([][]byte, len(vm.dstack.stk))
	copy(array, vm.dstack.stk)
	return array
}

// NewEngine returns a new script engine that executes script starting from the
// provided data stack.  The checker supplies the transaction dependent checks
// and metrics, which may be nil, receives the signature check count.
func NewEngine(initialStack [][]byte, script []byte, flags ScriptFlags,
	checker SignatureChecker, metrics *ScriptExecutionMetrics,
	opts ...EngineOption) (*Engine, error) {

	cfg := engineConfig{bigIntSize: DefaultBigIntScriptNumLen}
	for _, opt := range opts {
		opt(&cfg)
	}

	// The big integer width may not be narrower than the 64-bit rules it
	// extends, and no wider than a stack element.
	if cfg.bigIntSize < MaxScriptNumLen64Bit ||
		cfg.bigIntSize > MaxScriptElementSize {

		str := fmt.Sprintf("big integer size %d is outside of [%d, %d]",
			cfg.bigIntSize, MaxScriptNumLen64Bit, MaxScriptElementSize)
		return nil, scriptError(ErrInvalidFlags, str)
	}

	if len(script) > MaxScriptSize {
		str := fmt.Sprintf("script size %d is larger than max allowed "+
			"size %d", len(script), MaxScriptSize)
		return nil, scriptError(ErrScriptSize, str)
	}

	if checker == nil {
		checker = BaseSignatureChecker{}
	}
	if metrics == nil {
		metrics = &ScriptExecutionMetrics{}
	}

	regime := newNumericRegime(flags, cfg.bigIntSize)
	verifyMinimalData := flags.HasFlag(ScriptVerifyMinimalData)
	stk := make([][]byte, len(initialStack))
	copy(stk, initialStack)

	vm := Engine{
		flags:     flags,
		regime:    regime,
		checker:   checker,
		metrics:   metrics,
		script:    script,
		tokenizer: MakeScriptTokenizer(script),
		condStack: newConditionStack(),
		dstack: stack{
			stk:               stk,
			verifyMinimalData: verifyMinimalData,
			regime:            regime,
		},
		astack: stack{
			verifyMinimalData: verifyMinimalData,
			regime:            regime,
		},
	}
	return &vm, nil
}

// EvalScript executes script starting from the provided data stack and
// returns the resulting data stack.  The passed stack is not modified.
//
// The checker supplies the transaction dependent checks, and the number of
// signature checks performed is added to metrics when it is not nil.
func EvalScript(initialStack [][]byte, script []byte, flags ScriptFlags,
	checker SignatureChecker, metrics *ScriptExecutionMetrics,
	opts ...EngineOption) ([][]byte, error) {

	vm, err := NewEngine(initialStack, script, flags, checker, metrics,
		opts...)
	if err != nil {
		return nil, err
	}
	if err := vm.Execute(); err != nil {
		return nil, err
	}
	return vm.GetStack(), nil
}
