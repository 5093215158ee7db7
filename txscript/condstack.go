// Copyright (c) 2020 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// noFalse is the firstFalsePos sentinel used when the condition stack holds no
// false values.
const noFalse = -1

// conditionStack tracks the nested OP_IF/OP_NOTIF branches of a script.
//
// Only whether all values are true and whether the stack is empty are ever
// observed, so rather than storing every value it keeps the number of values
// and the position of the first false one.  This keeps every operation O(1)
// regardless of the nesting depth while behaving exactly like a stack of
// booleans.
type conditionStack struct {
	size          int
	firstFalsePos int
}

// newConditionStack returns an empty condition stack.
func newConditionStack() conditionStack {
	return conditionStack{firstFalsePos: noFalse}
}

// empty returns whether there are no open conditionals.
func (c *conditionStack) empty() bool {
	return c.size == 0
}

// allTrue returns whether every open conditional is on its executing branch.
func (c *conditionStack) allTrue() bool {
	return c.firstFalsePos == noFalse
}

// push opens a new conditional with the provided branch value.
func (c *conditionStack) push(v bool) {
	if c.firstFalsePos == noFalse && !v {
		// The stack consists of all true values, and a false is added.
		// The first false value will appear at the current size.
		c.firstFalsePos = c.size
	}
	c.size++
}

// pop closes the innermost conditional.  The stack must not be empty.
func (c *conditionStack) pop() {
	c.size--
	if c.firstFalsePos == c.size {
		// When popping off the first false value, everything becomes
		// true.
		c.firstFalsePos = noFalse
	}
}

// toggleTop flips the branch value of the innermost conditional.  The stack
// must not be empty.
func (c *conditionStack) toggleTop() {
	switch c.firstFalsePos {
	case noFalse:
		// The current stack is all true values; the first false will be
		// the top.
		c.firstFalsePos = c.size - 1

	case c.size - 1:
		// The top is the first false value; toggling it will make
		// everything true.
		c.firstFalsePos = noFalse
	}

	// Otherwise there is a false value below the top, so toggling the top
	// does not change the first false position.
}
