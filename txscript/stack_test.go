// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// TestAsBool ensures byte arrays are interpreted as booleans with negative
// zero being false.
func TestAsBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []byte
		want bool
	}{
		{nil, false},
		{[]byte{}, false},
		{[]byte{0x00}, false},
		{[]byte{0x00, 0x00, 0x00}, false},
		{[]byte{0x80}, false},
		{[]byte{0x00, 0x00, 0x80}, false},
		{[]byte{0x01}, true},
		{[]byte{0x80, 0x00}, true},
		{[]byte{0x00, 0x80, 0x00}, true},
		{[]byte{0x00, 0x81}, true},
	}

	for _, test := range tests {
		require.Equal(t, test.want, asBool(test.in), "%x", test.in)
	}
	require.Equal(t, []byte{1}, fromBool(true))
	require.Empty(t, fromBool(false))
}

// TestStack tests that all of the stack operations work as expected.
func TestStack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		before    [][]byte
		operation func(*stack) error
		err       ErrorCode
		after     [][]byte
	}{{
		name:      "noop",
		before:    [][]byte{{1}, {2}, {3}, {4}, {5}},
		operation: func(s *stack) error { return nil },
		after:     [][]byte{{1}, {2}, {3}, {4}, {5}},
	}, {
		name:   "peek underflow (byte)",
		before: [][]byte{{1}, {2}, {3}, {4}, {5}},
		operation: func(s *stack) error {
			_, err := s.PeekByteArray(5)
			return err
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "peek underflow (int)",
		before: [][]byte{{1}, {2}, {3}, {4}, {5}},
		operation: func(s *stack) error {
			_, err := s.PeekInt(5)
			return err
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "pop",
		before: [][]byte{{1}, {2}, {3}, {4}, {5}},
		operation: func(s *stack) error {
			val, err := s.PopByteArray()
			if err != nil {
				return err
			}
			require.Equal(t, []byte{5}, val)
			return nil
		},
		after: [][]byte{{1}, {2}, {3}, {4}},
	}, {
		name:   "pop everything",
		before: [][]byte{{1}, {2}, {3}, {4}, {5}},
		operation: func(s *stack) error {
			for i := 0; i < 5; i++ {
				if _, err := s.PopByteArray(); err != nil {
					return err
				}
			}
			return nil
		},
		after: nil,
	}, {
		name:   "pop underflow",
		before: [][]byte{{1}, {2}, {3}, {4}, {5}},
		operation: func(s *stack) error {
			for i := 0; i < 6; i++ {
				if _, err := s.PopByteArray(); err != nil {
					return err
				}
			}
			return nil
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "pop bool negative zero",
		before: [][]byte{{0x00, 0x80}},
		operation: func(s *stack) error {
			v, err := s.PopBool()
			if err != nil {
				return err
			}
			require.False(t, v)
			return nil
		},
	}, {
		name:   "pop int",
		before: [][]byte{{0x81}},
		operation: func(s *stack) error {
			v, err := s.PopInt()
			if err != nil {
				return err
			}
			require.Equal(t, int64(-1), v.Int64())
			return nil
		},
	}, {
		name:   "pop int too wide",
		before: [][]byte{{1, 2, 3, 4, 5}},
		operation: func(s *stack) error {
			_, err := s.PopInt()
			return err
		},
		err: ErrInvalidNumberRange,
	}, {
		name:   "push int",
		before: nil,
		operation: func(s *stack) error {
			s.PushInt(NewScriptNum(-128))
			s.PushBool(true)
			s.PushBool(false)
			return nil
		},
		after: [][]byte{{0x80, 0x80}, {1}, nil},
	}, {
		name:   "nip top",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.NipN(0)
		},
		after: [][]byte{{1}, {2}},
	}, {
		name:   "nip middle",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.NipN(1)
		},
		after: [][]byte{{1}, {3}},
	}, {
		name:   "nip bottom",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.NipN(2)
		},
		after: [][]byte{{2}, {3}},
	}, {
		name:   "nip too much",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.NipN(3)
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "tuck",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.Tuck()
		},
		after: [][]byte{{1}, {3}, {2}, {3}},
	}, {
		name:   "tuck underflow",
		before: [][]byte{{1}},
		operation: func(s *stack) error {
			return s.Tuck()
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "drop 2",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.DropN(2)
		},
		after: [][]byte{{1}},
	}, {
		name:   "drop 0",
		before: [][]byte{{1}},
		operation: func(s *stack) error {
			return s.DropN(0)
		},
		err: ErrInvalidIndex,
	}, {
		name:   "dup 2",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.DupN(2)
		},
		after: [][]byte{{1}, {2}, {3}, {2}, {3}},
	}, {
		name:   "dup 3 underflow",
		before: [][]byte{{1}, {2}},
		operation: func(s *stack) error {
			return s.DupN(3)
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "rot 1",
		before: [][]byte{{1}, {2}, {3}, {4}},
		operation: func(s *stack) error {
			return s.RotN(1)
		},
		after: [][]byte{{1}, {3}, {4}, {2}},
	}, {
		name:   "rot 2",
		before: [][]byte{{1}, {2}, {3}, {4}, {5}, {6}},
		operation: func(s *stack) error {
			return s.RotN(2)
		},
		after: [][]byte{{3}, {4}, {5}, {6}, {1}, {2}},
	}, {
		name:   "rot underflow",
		before: [][]byte{{1}, {2}},
		operation: func(s *stack) error {
			return s.RotN(1)
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "swap 1",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.SwapN(1)
		},
		after: [][]byte{{1}, {3}, {2}},
	}, {
		name:   "swap 2",
		before: [][]byte{{1}, {2}, {3}, {4}},
		operation: func(s *stack) error {
			return s.SwapN(2)
		},
		after: [][]byte{{3}, {4}, {1}, {2}},
	}, {
		name:   "over 1",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.OverN(1)
		},
		after: [][]byte{{1}, {2}, {3}, {2}},
	}, {
		name:   "over 2",
		before: [][]byte{{1}, {2}, {3}, {4}},
		operation: func(s *stack) error {
			return s.OverN(2)
		},
		after: [][]byte{{1}, {2}, {3}, {4}, {1}, {2}},
	}, {
		name:   "pick 2",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.PickN(2)
		},
		after: [][]byte{{1}, {2}, {3}, {1}},
	}, {
		name:   "pick negative",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.PickN(-1)
		},
		err: ErrInvalidStackOperation,
	}, {
		name:   "roll 2",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.RollN(2)
		},
		after: [][]byte{{2}, {3}, {1}},
	}, {
		name:   "roll 0",
		before: [][]byte{{1}, {2}, {3}},
		operation: func(s *stack) error {
			return s.RollN(0)
		},
		after: [][]byte{{1}, {2}, {3}},
	}}

	for _, test := range tests {
		s := stack{
			regime: newNumericRegime(0, 0),
		}
		for _, elem := range test.before {
			s.PushByteArray(elem)
		}

		err := test.operation(&s)
		if test.err != ErrUnknown {
			require.True(t, IsErrorCode(err, test.err),
				"%s: got error %v, want %v", test.name, err, test.err)
			continue
		}
		require.NoError(t, err, test.name)

		if len(test.after) == 0 {
			require.Zero(t, s.Depth(), test.name)
			continue
		}
		require.Equal(t, len(test.after), s.Depth(), "%s: %s",
			test.name, spew.Sdump(s.stk))
		for i := range test.after {
			require.Equal(t, []byte(test.after[i]), []byte(s.stk[i]),
				"%s: item %d", test.name, i)
		}
	}
}
