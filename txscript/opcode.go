// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"math/bits"
	"strings"

	"golang.org/x/crypto/ripemd160"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/wire"
)

// An opcode defines the information related to a txscript opcode.  opfunc, if
// present, is the function to call to perform the opcode on the script.  The
// current script is passed in as a slice with the first member being the opcode
// itself.
type opcode struct {
	value  byte
	name   string
	length int
	opfunc func(*opcode, []byte, *Engine) error
}

// These constants are the values of the opcodes used by Bitcoin Cash.  Values
// that were once disabled splice and bitwise opcodes in Bitcoin, such as OP_CAT
// and OP_AND, are live opcodes here, and OP_SUBSTR, OP_LEFT and OP_RIGHT were
// repurposed as OP_SPLIT, OP_NUM2BIN and OP_BIN2NUM.
const (
	OP_0                     = 0x00 // 0
	OP_FALSE                 = 0x00 // 0 - AKA OP_0
	OP_DATA_1                = 0x01 // 1
	OP_DATA_2                = 0x02 // 2
	OP_DATA_3                = 0x03 // 3
	OP_DATA_4                = 0x04 // 4
	OP_DATA_5                = 0x05 // 5
	OP_DATA_6                = 0x06 // 6
	OP_DATA_7                = 0x07 // 7
	OP_DATA_8                = 0x08 // 8
	OP_DATA_9                = 0x09 // 9
	OP_DATA_10               = 0x0a // 10
	OP_DATA_11               = 0x0b // 11
	OP_DATA_12               = 0x0c // 12
	OP_DATA_13               = 0x0d // 13
	OP_DATA_14               = 0x0e // 14
	OP_DATA_15               = 0x0f // 15
	OP_DATA_16               = 0x10 // 16
	OP_DATA_17               = 0x11 // 17
	OP_DATA_18               = 0x12 // 18
	OP_DATA_19               = 0x13 // 19
	OP_DATA_20               = 0x14 // 20
	OP_DATA_21               = 0x15 // 21
	OP_DATA_22               = 0x16 // 22
	OP_DATA_23               = 0x17 // 23
	OP_DATA_24               = 0x18 // 24
	OP_DATA_25               = 0x19 // 25
	OP_DATA_26               = 0x1a // 26
	OP_DATA_27               = 0x1b // 27
	OP_DATA_28               = 0x1c // 28
	OP_DATA_29               = 0x1d // 29
	OP_DATA_30               = 0x1e // 30
	OP_DATA_31               = 0x1f // 31
	OP_DATA_32               = 0x20 // 32
	OP_DATA_33               = 0x21 // 33
	OP_DATA_34               = 0x22 // 34
	OP_DATA_35               = 0x23 // 35
	OP_DATA_36               = 0x24 // 36
	OP_DATA_37               = 0x25 // 37
	OP_DATA_38               = 0x26 // 38
	OP_DATA_39               = 0x27 // 39
	OP_DATA_40               = 0x28 // 40
	OP_DATA_41               = 0x29 // 41
	OP_DATA_42               = 0x2a // 42
	OP_DATA_43               = 0x2b // 43
	OP_DATA_44               = 0x2c // 44
	OP_DATA_45               = 0x2d // 45
	OP_DATA_46               = 0x2e // 46
	OP_DATA_47               = 0x2f // 47
	OP_DATA_48               = 0x30 // 48
	OP_DATA_49               = 0x31 // 49
	OP_DATA_50               = 0x32 // 50
	OP_DATA_51               = 0x33 // 51
	OP_DATA_52               = 0x34 // 52
	OP_DATA_53               = 0x35 // 53
	OP_DATA_54               = 0x36 // 54
	OP_DATA_55               = 0x37 // 55
	OP_DATA_56               = 0x38 // 56
	OP_DATA_57               = 0x39 // 57
	OP_DATA_58               = 0x3a // 58
	OP_DATA_59               = 0x3b // 59
	OP_DATA_60               = 0x3c // 60
	OP_DATA_61               = 0x3d // 61
	OP_DATA_62               = 0x3e // 62
	OP_DATA_63               = 0x3f // 63
	OP_DATA_64               = 0x40 // 64
	OP_DATA_65               = 0x41 // 65
	OP_DATA_66               = 0x42 // 66
	OP_DATA_67               = 0x43 // 67
	OP_DATA_68               = 0x44 // 68
	OP_DATA_69               = 0x45 // 69
	OP_DATA_70               = 0x46 // 70
	OP_DATA_71               = 0x47 // 71
	OP_DATA_72               = 0x48 // 72
	OP_DATA_73               = 0x49 // 73
	OP_DATA_74               = 0x4a // 74
	OP_DATA_75               = 0x4b // 75
	OP_PUSHDATA1             = 0x4c // 76
	OP_PUSHDATA2             = 0x4d // 77
	OP_PUSHDATA4             = 0x4e // 78
	OP_1NEGATE               = 0x4f // 79
	OP_RESERVED              = 0x50 // 80
	OP_1                     = 0x51 // 81
	OP_TRUE                  = 0x51 // 81 - AKA OP_1
	OP_2                     = 0x52 // 82
	OP_3                     = 0x53 // 83
	OP_4                     = 0x54 // 84
	OP_5                     = 0x55 // 85
	OP_6                     = 0x56 // 86
	OP_7                     = 0x57 // 87
	OP_8                     = 0x58 // 88
	OP_9                     = 0x59 // 89
	OP_10                    = 0x5a // 90
	OP_11                    = 0x5b // 91
	OP_12                    = 0x5c // 92
	OP_13                    = 0x5d // 93
	OP_14                    = 0x5e // 94
	OP_15                    = 0x5f // 95
	OP_16                    = 0x60 // 96
	OP_NOP                   = 0x61 // 97
	OP_VER                   = 0x62 // 98
	OP_IF                    = 0x63 // 99
	OP_NOTIF                 = 0x64 // 100
	OP_VERIF                 = 0x65 // 101
	OP_VERNOTIF              = 0x66 // 102
	OP_ELSE                  = 0x67 // 103
	OP_ENDIF                 = 0x68 // 104
	OP_VERIFY                = 0x69 // 105
	OP_RETURN                = 0x6a // 106
	OP_TOALTSTACK            = 0x6b // 107
	OP_FROMALTSTACK          = 0x6c // 108
	OP_2DROP                 = 0x6d // 109
	OP_2DUP                  = 0x6e // 110
	OP_3DUP                  = 0x6f // 111
	OP_2OVER                 = 0x70 // 112
	OP_2ROT                  = 0x71 // 113
	OP_2SWAP                 = 0x72 // 114
	OP_IFDUP                 = 0x73 // 115
	OP_DEPTH                 = 0x74 // 116
	OP_DROP                  = 0x75 // 117
	OP_DUP                   = 0x76 // 118
	OP_NIP                   = 0x77 // 119
	OP_OVER                  = 0x78 // 120
	OP_PICK                  = 0x79 // 121
	OP_ROLL                  = 0x7a // 122
	OP_ROT                   = 0x7b // 123
	OP_SWAP                  = 0x7c // 124
	OP_TUCK                  = 0x7d // 125
	OP_CAT                   = 0x7e // 126
	OP_SPLIT                 = 0x7f // 127
	OP_NUM2BIN               = 0x80 // 128
	OP_BIN2NUM               = 0x81 // 129
	OP_SIZE                  = 0x82 // 130
	OP_INVERT                = 0x83 // 131
	OP_AND                   = 0x84 // 132
	OP_OR                    = 0x85 // 133
	OP_XOR                   = 0x86 // 134
	OP_EQUAL                 = 0x87 // 135
	OP_EQUALVERIFY           = 0x88 // 136
	OP_RESERVED1             = 0x89 // 137
	OP_RESERVED2             = 0x8a // 138
	OP_1ADD                  = 0x8b // 139
	OP_1SUB                  = 0x8c // 140
	OP_2MUL                  = 0x8d // 141
	OP_2DIV                  = 0x8e // 142
	OP_NEGATE                = 0x8f // 143
	OP_ABS                   = 0x90 // 144
	OP_NOT                   = 0x91 // 145
	OP_0NOTEQUAL             = 0x92 // 146
	OP_ADD                   = 0x93 // 147
	OP_SUB                   = 0x94 // 148
	OP_MUL                   = 0x95 // 149
	OP_DIV                   = 0x96 // 150
	OP_MOD                   = 0x97 // 151
	OP_LSHIFT                = 0x98 // 152
	OP_RSHIFT                = 0x99 // 153
	OP_BOOLAND               = 0x9a // 154
	OP_BOOLOR                = 0x9b // 155
	OP_NUMEQUAL              = 0x9c // 156
	OP_NUMEQUALVERIFY        = 0x9d // 157
	OP_NUMNOTEQUAL           = 0x9e // 158
	OP_LESSTHAN              = 0x9f // 159
	OP_GREATERTHAN           = 0xa0 // 160
	OP_LESSTHANOREQUAL       = 0xa1 // 161
	OP_GREATERTHANOREQUAL    = 0xa2 // 162
	OP_MIN                   = 0xa3 // 163
	OP_MAX                   = 0xa4 // 164
	OP_WITHIN                = 0xa5 // 165
	OP_RIPEMD160             = 0xa6 // 166
	OP_SHA1                  = 0xa7 // 167
	OP_SHA256                = 0xa8 // 168
	OP_HASH160               = 0xa9 // 169
	OP_HASH256               = 0xaa // 170
	OP_CODESEPARATOR         = 0xab // 171
	OP_CHECKSIG              = 0xac // 172
	OP_CHECKSIGVERIFY        = 0xad // 173
	OP_CHECKMULTISIG         = 0xae // 174
	OP_CHECKMULTISIGVERIFY   = 0xaf // 175
	OP_NOP1                  = 0xb0 // 176
	OP_CHECKLOCKTIMEVERIFY   = 0xb1 // 177
	OP_NOP2                  = 0xb1 // 177 - AKA OP_CHECKLOCKTIMEVERIFY
	OP_CHECKSEQUENCEVERIFY   = 0xb2 // 178
	OP_NOP3                  = 0xb2 // 178 - AKA OP_CHECKSEQUENCEVERIFY
	OP_NOP4                  = 0xb3 // 179
	OP_NOP5                  = 0xb4 // 180
	OP_NOP6                  = 0xb5 // 181
	OP_NOP7                  = 0xb6 // 182
	OP_NOP8                  = 0xb7 // 183
	OP_NOP9                  = 0xb8 // 184
	OP_NOP10                 = 0xb9 // 185
	OP_CHECKDATASIG          = 0xba // 186
	OP_CHECKDATASIGVERIFY    = 0xbb // 187
	OP_REVERSEBYTES          = 0xbc // 188
	OP_UNKNOWN189            = 0xbd // 189
	OP_UNKNOWN190            = 0xbe // 190
	OP_UNKNOWN191            = 0xbf // 191
	OP_INPUTINDEX            = 0xc0 // 192
	OP_ACTIVEBYTECODE        = 0xc1 // 193
	OP_TXVERSION             = 0xc2 // 194
	OP_TXINPUTCOUNT          = 0xc3 // 195
	OP_TXOUTPUTCOUNT         = 0xc4 // 196
	OP_TXLOCKTIME            = 0xc5 // 197
	OP_UTXOVALUE             = 0xc6 // 198
	OP_UTXOBYTECODE          = 0xc7 // 199
	OP_OUTPOINTTXHASH        = 0xc8 // 200
	OP_OUTPOINTINDEX         = 0xc9 // 201
	OP_INPUTBYTECODE         = 0xca // 202
	OP_INPUTSEQUENCENUMBER   = 0xcb // 203
	OP_OUTPUTVALUE           = 0xcc // 204
	OP_OUTPUTBYTECODE        = 0xcd // 205
	OP_UTXOTOKENCATEGORY     = 0xce // 206
	OP_UTXOTOKENCOMMITMENT   = 0xcf // 207
	OP_UTXOTOKENAMOUNT       = 0xd0 // 208
	OP_OUTPUTTOKENCATEGORY   = 0xd1 // 209
	OP_OUTPUTTOKENCOMMITMENT = 0xd2 // 210
	OP_OUTPUTTOKENAMOUNT     = 0xd3 // 211
	OP_UNKNOWN212            = 0xd4 // 212
	OP_UNKNOWN213            = 0xd5 // 213
	OP_UNKNOWN214            = 0xd6 // 214
	OP_UNKNOWN215            = 0xd7 // 215
	OP_UNKNOWN216            = 0xd8 // 216
	OP_UNKNOWN217            = 0xd9 // 217
	OP_UNKNOWN218            = 0xda // 218
	OP_UNKNOWN219            = 0xdb // 219
	OP_UNKNOWN220            = 0xdc // 220
	OP_UNKNOWN221            = 0xdd // 221
	OP_UNKNOWN222            = 0xde // 222
	OP_UNKNOWN223            = 0xdf // 223
	OP_UNKNOWN224            = 0xe0 // 224
	OP_UNKNOWN225            = 0xe1 // 225
	OP_UNKNOWN226            = 0xe2 // 226
	OP_UNKNOWN227            = 0xe3 // 227
	OP_UNKNOWN228            = 0xe4 // 228
	OP_UNKNOWN229            = 0xe5 // 229
	OP_UNKNOWN230            = 0xe6 // 230
	OP_UNKNOWN231            = 0xe7 // 231
	OP_UNKNOWN232            = 0xe8 // 232
	OP_UNKNOWN233            = 0xe9 // 233
	OP_UNKNOWN234            = 0xea // 234
	OP_UNKNOWN235            = 0xeb // 235
	OP_UNKNOWN236            = 0xec // 236
	OP_UNKNOWN237            = 0xed // 237
	OP_UNKNOWN238            = 0xee // 238
	OP_UNKNOWN239            = 0xef // 239
	OP_UNKNOWN240            = 0xf0 // 240
	OP_UNKNOWN241            = 0xf1 // 241
	OP_UNKNOWN242            = 0xf2 // 242
	OP_UNKNOWN243            = 0xf3 // 243
	OP_UNKNOWN244            = 0xf4 // 244
	OP_UNKNOWN245            = 0xf5 // 245
	OP_UNKNOWN246            = 0xf6 // 246
	OP_UNKNOWN247            = 0xf7 // 247
	OP_UNKNOWN248            = 0xf8 // 248
	OP_UNKNOWN249            = 0xf9 // 249
	OP_SMALLINTEGER          = 0xfa // 250
	OP_PUBKEYS               = 0xfb // 251
	OP_UNKNOWN252            = 0xfc // 252
	OP_PUBKEYHASH            = 0xfd // 253
	OP_PUBKEY                = 0xfe // 254
	OP_INVALIDOPCODE         = 0xff // 255
)

// opcodeArray holds details about all possible opcodes such as how many bytes
// the opcode and any associated data should take, its human-readable name, and
// the handler function.
var opcodeArray = [256]opcode{
	// Data push opcodes.
	OP_0:         {OP_0, "OP_0", 1, opcodeFalse},
	OP_DATA_1:    {OP_DATA_1, "OP_DATA_1", 2, opcodePushData},
	OP_DATA_2:    {OP_DATA_2, "OP_DATA_2", 3, opcodePushData},
	OP_DATA_3:    {OP_DATA_3, "OP_DATA_3", 4, opcodePushData},
	OP_DATA_4:    {OP_DATA_4, "OP_DATA_4", 5, opcodePushData},
	OP_DATA_5:    {OP_DATA_5, "OP_DATA_5", 6, opcodePushData},
	OP_DATA_6:    {OP_DATA_6, "OP_DATA_6", 7, opcodePushData},
	OP_DATA_7:    {OP_DATA_7, "OP_DATA_7", 8, opcodePushData},
	OP_DATA_8:    {OP_DATA_8, "OP_DATA_8", 9, opcodePushData},
	OP_DATA_9:    {OP_DATA_9, "OP_DATA_9", 10, opcodePushData},
	OP_DATA_10:   {OP_DATA_10, "OP_DATA_10", 11, opcodePushData},
	OP_DATA_11:   {OP_DATA_11, "OP_DATA_11", 12, opcodePushData},
	OP_DATA_12:   {OP_DATA_12, "OP_DATA_12", 13, opcodePushData},
	OP_DATA_13:   {OP_DATA_13, "OP_DATA_13", 14, opcodePushData},
	OP_DATA_14:   {OP_DATA_14, "OP_DATA_14", 15, opcodePushData},
	OP_DATA_15:   {OP_DATA_15, "OP_DATA_15", 16, opcodePushData},
	OP_DATA_16:   {OP_DATA_16, "OP_DATA_16", 17, opcodePushData},
	OP_DATA_17:   {OP_DATA_17, "OP_DATA_17", 18, opcodePushData},
	OP_DATA_18:   {OP_DATA_18, "OP_DATA_18", 19, opcodePushData},
	OP_DATA_19:   {OP_DATA_19, "OP_DATA_19", 20, opcodePushData},
	OP_DATA_20:   {OP_DATA_20, "OP_DATA_20", 21, opcodePushData},
	OP_DATA_21:   {OP_DATA_21, "OP_DATA_21", 22, opcodePushData},
	OP_DATA_22:   {OP_DATA_22, "OP_DATA_22", 23, opcodePushData},
	OP_DATA_23:   {OP_DATA_23, "OP_DATA_23", 24, opcodePushData},
	OP_DATA_24:   {OP_DATA_24, "OP_DATA_24", 25, opcodePushData},
	OP_DATA_25:   {OP_DATA_25, "OP_DATA_25", 26, opcodePushData},
	OP_DATA_26:   {OP_DATA_26, "OP_DATA_26", 27, opcodePushData},
	OP_DATA_27:   {OP_DATA_27, "OP_DATA_27", 28, opcodePushData},
	OP_DATA_28:   {OP_DATA_28, "OP_DATA_28", 29, opcodePushData},
	OP_DATA_29:   {OP_DATA_29, "OP_DATA_29", 30, opcodePushData},
	OP_DATA_30:   {OP_DATA_30, "OP_DATA_30", 31, opcodePushData},
	OP_DATA_31:   {OP_DATA_31, "OP_DATA_31", 32, opcodePushData},
	OP_DATA_32:   {OP_DATA_32, "OP_DATA_32", 33, opcodePushData},
	OP_DATA_33:   {OP_DATA_33, "OP_DATA_33", 34, opcodePushData},
	OP_DATA_34:   {OP_DATA_34, "OP_DATA_34", 35, opcodePushData},
	OP_DATA_35:   {OP_DATA_35, "OP_DATA_35", 36, opcodePushData},
	OP_DATA_36:   {OP_DATA_36, "OP_DATA_36", 37, opcodePushData},
	OP_DATA_37:   {OP_DATA_37, "OP_DATA_37", 38, opcodePushData},
	OP_DATA_38:   {OP_DATA_38, "OP_DATA_38", 39, opcodePushData},
	OP_DATA_39:   {OP_DATA_39, "OP_DATA_39", 40, opcodePushData},
	OP_DATA_40:   {OP_DATA_40, "OP_DATA_40", 41, opcodePushData},
	OP_DATA_41:   {OP_DATA_41, "OP_DATA_41", 42, opcodePushData},
	OP_DATA_42:   {OP_DATA_42, "OP_DATA_42", 43, opcodePushData},
	OP_DATA_43:   {OP_DATA_43, "OP_DATA_43", 44, opcodePushData},
	OP_DATA_44:   {OP_DATA_44, "OP_DATA_44", 45, opcodePushData},
	OP_DATA_45:   {OP_DATA_45, "OP_DATA_45", 46, opcodePushData},
	OP_DATA_46:   {OP_DATA_46, "OP_DATA_46", 47, opcodePushData},
	OP_DATA_47:   {OP_DATA_47, "OP_DATA_47", 48, opcodePushData},
	OP_DATA_48:   {OP_DATA_48, "OP_DATA_48", 49, opcodePushData},
	OP_DATA_49:   {OP_DATA_49, "OP_DATA_49", 50, opcodePushData},
	OP_DATA_50:   {OP_DATA_50, "OP_DATA_50", 51, opcodePushData},
	OP_DATA_51:   {OP_DATA_51, "OP_DATA_51", 52, opcodePushData},
	OP_DATA_52:   {OP_DATA_52, "OP_DATA_52", 53, opcodePushData},
	OP_DATA_53:   {OP_DATA_53, "OP_DATA_53", 54, opcodePushData},
	OP_DATA_54:   {OP_DATA_54, "OP_DATA_54", 55, opcodePushData},
	OP_DATA_55:   {OP_DATA_55, "OP_DATA_55", 56, opcodePushData},
	OP_DATA_56:   {OP_DATA_56, "OP_DATA_56", 57, opcodePushData},
	OP_DATA_57:   {OP_DATA_57, "OP_DATA_57", 58, opcodePushData},
	OP_DATA_58:   {OP_DATA_58, "OP_DATA_58", 59, opcodePushData},
	OP_DATA_59:   {OP_DATA_59, "OP_DATA_59", 60, opcodePushData},
	OP_DATA_60:   {OP_DATA_60, "OP_DATA_60", 61, opcodePushData},
	OP_DATA_61:   {OP_DATA_61, "OP_DATA_61", 62, opcodePushData},
	OP_DATA_62:   {OP_DATA_62, "OP_DATA_62", 63, opcodePushData},
	OP_DATA_63:   {OP_DATA_63, "OP_DATA_63", 64, opcodePushData},
	OP_DATA_64:   {OP_DATA_64, "OP_DATA_64", 65, opcodePushData},
	OP_DATA_65:   {OP_DATA_65, "OP_DATA_65", 66, opcodePushData},
	OP_DATA_66:   {OP_DATA_66, "OP_DATA_66", 67, opcodePushData},
	OP_DATA_67:   {OP_DATA_67, "OP_DATA_67", 68, opcodePushData},
	OP_DATA_68:   {OP_DATA_68, "OP_DATA_68", 69, opcodePushData},
	OP_DATA_69:   {OP_DATA_69, "OP_DATA_69", 70, opcodePushData},
	OP_DATA_70:   {OP_DATA_70, "OP_DATA_70", 71, opcodePushData},
	OP_DATA_71:   {OP_DATA_71, "OP_DATA_71", 72, opcodePushData},
	OP_DATA_72:   {OP_DATA_72, "OP_DATA_72", 73, opcodePushData},
	OP_DATA_73:   {OP_DATA_73, "OP_DATA_73", 74, opcodePushData},
	OP_DATA_74:   {OP_DATA_74, "OP_DATA_74", 75, opcodePushData},
	OP_DATA_75:   {OP_DATA_75, "OP_DATA_75", 76, opcodePushData},
	OP_PUSHDATA1: {OP_PUSHDATA1, "OP_PUSHDATA1", -1, opcodePushData},
	OP_PUSHDATA2: {OP_PUSHDATA2, "OP_PUSHDATA2", -2, opcodePushData},
	OP_PUSHDATA4: {OP_PUSHDATA4, "OP_PUSHDATA4", -4, opcodePushData},

	// Push value opcodes.
	OP_1NEGATE:  {OP_1NEGATE, "OP_1NEGATE", 1, opcode1Negate},
	OP_RESERVED: {OP_RESERVED, "OP_RESERVED", 1, opcodeReserved},
	OP_1:        {OP_1, "OP_1", 1, opcodeN},
	OP_2:        {OP_2, "OP_2", 1, opcodeN},
	OP_3:        {OP_3, "OP_3", 1, opcodeN},
	OP_4:        {OP_4, "OP_4", 1, opcodeN},
	OP_5:        {OP_5, "OP_5", 1, opcodeN},
	OP_6:        {OP_6, "OP_6", 1, opcodeN},
	OP_7:        {OP_7, "OP_7", 1, opcodeN},
	OP_8:        {OP_8, "OP_8", 1, opcodeN},
	OP_9:        {OP_9, "OP_9", 1, opcodeN},
	OP_10:       {OP_10, "OP_10", 1, opcodeN},
	OP_11:       {OP_11, "OP_11", 1, opcodeN},
	OP_12:       {OP_12, "OP_12", 1, opcodeN},
	OP_13:       {OP_13, "OP_13", 1, opcodeN},
	OP_14:       {OP_14, "OP_14", 1, opcodeN},
	OP_15:       {OP_15, "OP_15", 1, opcodeN},
	OP_16:       {OP_16, "OP_16", 1, opcodeN},

	// Control opcodes.
	OP_NOP:      {OP_NOP, "OP_NOP", 1, opcodeNop},
	OP_VER:      {OP_VER, "OP_VER", 1, opcodeReserved},
	OP_IF:       {OP_IF, "OP_IF", 1, opcodeIf},
	OP_NOTIF:    {OP_NOTIF, "OP_NOTIF", 1, opcodeNotIf},
	OP_VERIF:    {OP_VERIF, "OP_VERIF", 1, opcodeReserved},
	OP_VERNOTIF: {OP_VERNOTIF, "OP_VERNOTIF", 1, opcodeReserved},
	OP_ELSE:     {OP_ELSE, "OP_ELSE", 1, opcodeElse},
	OP_ENDIF:    {OP_ENDIF, "OP_ENDIF", 1, opcodeEndif},
	OP_VERIFY:   {OP_VERIFY, "OP_VERIFY", 1, opcodeVerify},
	OP_RETURN:   {OP_RETURN, "OP_RETURN", 1, opcodeReturn},

	// Stack opcodes.
	OP_TOALTSTACK:   {OP_TOALTSTACK, "OP_TOALTSTACK", 1, opcodeToAltStack},
	OP_FROMALTSTACK: {OP_FROMALTSTACK, "OP_FROMALTSTACK", 1, opcodeFromAltStack},
	OP_2DROP:        {OP_2DROP, "OP_2DROP", 1, opcode2Drop},
	OP_2DUP:         {OP_2DUP, "OP_2DUP", 1, opcode2Dup},
	OP_3DUP:         {OP_3DUP, "OP_3DUP", 1, opcode3Dup},
	OP_2OVER:        {OP_2OVER, "OP_2OVER", 1, opcode2Over},
	OP_2ROT:         {OP_2ROT, "OP_2ROT", 1, opcode2Rot},
	OP_2SWAP:        {OP_2SWAP, "OP_2SWAP", 1, opcode2Swap},
	OP_IFDUP:        {OP_IFDUP, "OP_IFDUP", 1, opcodeIfDup},
	OP_DEPTH:        {OP_DEPTH, "OP_DEPTH", 1, opcodeDepth},
	OP_DROP:         {OP_DROP, "OP_DROP", 1, opcodeDrop},
	OP_DUP:          {OP_DUP, "OP_DUP", 1, opcodeDup},
	OP_NIP:          {OP_NIP, "OP_NIP", 1, opcodeNip},
	OP_OVER:         {OP_OVER, "OP_OVER", 1, opcodeOver},
	OP_PICK:         {OP_PICK, "OP_PICK", 1, opcodePick},
	OP_ROLL:         {OP_ROLL, "OP_ROLL", 1, opcodeRoll},
	OP_ROT:          {OP_ROT, "OP_ROT", 1, opcodeRot},
	OP_SWAP:         {OP_SWAP, "OP_SWAP", 1, opcodeSwap},
	OP_TUCK:         {OP_TUCK, "OP_TUCK", 1, opcodeTuck},

	// Splice opcodes.
	OP_CAT:     {OP_CAT, "OP_CAT", 1, opcodeCat},
	OP_SPLIT:   {OP_SPLIT, "OP_SPLIT", 1, opcodeSplit},
	OP_NUM2BIN: {OP_NUM2BIN, "OP_NUM2BIN", 1, opcodeNum2Bin},
	OP_BIN2NUM: {OP_BIN2NUM, "OP_BIN2NUM", 1, opcodeBin2Num},
	OP_SIZE:    {OP_SIZE, "OP_SIZE", 1, opcodeSize},

	// Bitwise logic opcodes.
	OP_INVERT:      {OP_INVERT, "OP_INVERT", 1, opcodeDisabled},
	OP_AND:         {OP_AND, "OP_AND", 1, opcodeAnd},
	OP_OR:          {OP_OR, "OP_OR", 1, opcodeOr},
	OP_XOR:         {OP_XOR, "OP_XOR", 1, opcodeXor},
	OP_EQUAL:       {OP_EQUAL, "OP_EQUAL", 1, opcodeEqual},
	OP_EQUALVERIFY: {OP_EQUALVERIFY, "OP_EQUALVERIFY", 1, opcodeEqualVerify},
	OP_RESERVED1:   {OP_RESERVED1, "OP_RESERVED1", 1, opcodeReserved},
	OP_RESERVED2:   {OP_RESERVED2, "OP_RESERVED2", 1, opcodeReserved},

	// Numeric related opcodes.
	OP_1ADD:               {OP_1ADD, "OP_1ADD", 1, opcode1Add},
	OP_1SUB:               {OP_1SUB, "OP_1SUB", 1, opcode1Sub},
	OP_2MUL:               {OP_2MUL, "OP_2MUL", 1, opcodeDisabled},
	OP_2DIV:               {OP_2DIV, "OP_2DIV", 1, opcodeDisabled},
	OP_NEGATE:             {OP_NEGATE, "OP_NEGATE", 1, opcodeNegate},
	OP_ABS:                {OP_ABS, "OP_ABS", 1, opcodeAbs},
	OP_NOT:                {OP_NOT, "OP_NOT", 1, opcodeNot},
	OP_0NOTEQUAL:          {OP_0NOTEQUAL, "OP_0NOTEQUAL", 1, opcode0NotEqual},
	OP_ADD:                {OP_ADD, "OP_ADD", 1, opcodeAdd},
	OP_SUB:                {OP_SUB, "OP_SUB", 1, opcodeSub},
	OP_MUL:                {OP_MUL, "OP_MUL", 1, opcodeMul},
	OP_DIV:                {OP_DIV, "OP_DIV", 1, opcodeDiv},
	OP_MOD:                {OP_MOD, "OP_MOD", 1, opcodeMod},
	OP_LSHIFT:             {OP_LSHIFT, "OP_LSHIFT", 1, opcodeDisabled},
	OP_RSHIFT:             {OP_RSHIFT, "OP_RSHIFT", 1, opcodeDisabled},
	OP_BOOLAND:            {OP_BOOLAND, "OP_BOOLAND", 1, opcodeBoolAnd},
	OP_BOOLOR:             {OP_BOOLOR, "OP_BOOLOR", 1, opcodeBoolOr},
	OP_NUMEQUAL:           {OP_NUMEQUAL, "OP_NUMEQUAL", 1, opcodeNumEqual},
	OP_NUMEQUALVERIFY:     {OP_NUMEQUALVERIFY, "OP_NUMEQUALVERIFY", 1, opcodeNumEqualVerify},
	OP_NUMNOTEQUAL:        {OP_NUMNOTEQUAL, "OP_NUMNOTEQUAL", 1, opcodeNumNotEqual},
	OP_LESSTHAN:           {OP_LESSTHAN, "OP_LESSTHAN", 1, opcodeLessThan},
	OP_GREATERTHAN:        {OP_GREATERTHAN, "OP_GREATERTHAN", 1, opcodeGreaterThan},
	OP_LESSTHANOREQUAL:    {OP_LESSTHANOREQUAL, "OP_LESSTHANOREQUAL", 1, opcodeLessThanOrEqual},
	OP_GREATERTHANOREQUAL: {OP_GREATERTHANOREQUAL, "OP_GREATERTHANOREQUAL", 1, opcodeGreaterThanOrEqual},
	OP_MIN:                {OP_MIN, "OP_MIN", 1, opcodeMin},
	OP_MAX:                {OP_MAX, "OP_MAX", 1, opcodeMax},
	OP_WITHIN:             {OP_WITHIN, "OP_WITHIN", 1, opcodeWithin},

	// Crypto opcodes.
	OP_RIPEMD160:           {OP_RIPEMD160, "OP_RIPEMD160", 1, opcodeRipemd160},
	OP_SHA1:                {OP_SHA1, "OP_SHA1", 1, opcodeSha1},
	OP_SHA256:              {OP_SHA256, "OP_SHA256", 1, opcodeSha256},
	OP_HASH160:             {OP_HASH160, "OP_HASH160", 1, opcodeHash160},
	OP_HASH256:             {OP_HASH256, "OP_HASH256", 1, opcodeHash256},
	OP_CODESEPARATOR:       {OP_CODESEPARATOR, "OP_CODESEPARATOR", 1, opcodeCodeSeparator},
	OP_CHECKSIG:            {OP_CHECKSIG, "OP_CHECKSIG", 1, opcodeCheckSig},
	OP_CHECKSIGVERIFY:      {OP_CHECKSIGVERIFY, "OP_CHECKSIGVERIFY", 1, opcodeCheckSigVerify},
	OP_CHECKMULTISIG:       {OP_CHECKMULTISIG, "OP_CHECKMULTISIG", 1, opcodeCheckMultiSig},
	OP_CHECKMULTISIGVERIFY: {OP_CHECKMULTISIGVERIFY, "OP_CHECKMULTISIGVERIFY", 1, opcodeCheckMultiSigVerify},

	// Reserved NOP and lock time opcodes.
	OP_NOP1:                {OP_NOP1, "OP_NOP1", 1, opcodeNop},
	OP_CHECKLOCKTIMEVERIFY: {OP_CHECKLOCKTIMEVERIFY, "OP_CHECKLOCKTIMEVERIFY", 1, opcodeCheckLockTimeVerify},
	OP_CHECKSEQUENCEVERIFY: {OP_CHECKSEQUENCEVERIFY, "OP_CHECKSEQUENCEVERIFY", 1, opcodeCheckSequenceVerify},
	OP_NOP4:                {OP_NOP4, "OP_NOP4", 1, opcodeNop},
	OP_NOP5:                {OP_NOP5, "OP_NOP5", 1, opcodeNop},
	OP_NOP6:                {OP_NOP6, "OP_NOP6", 1, opcodeNop},
	OP_NOP7:                {OP_NOP7, "OP_NOP7", 1, opcodeNop},
	OP_NOP8:                {OP_NOP8, "OP_NOP8", 1, opcodeNop},
	OP_NOP9:                {OP_NOP9, "OP_NOP9", 1, opcodeNop},
	OP_NOP10:               {OP_NOP10, "OP_NOP10", 1, opcodeNop},

	// Data signature and byte order opcodes.
	OP_CHECKDATASIG:       {OP_CHECKDATASIG, "OP_CHECKDATASIG", 1, opcodeCheckDataSig},
	OP_CHECKDATASIGVERIFY: {OP_CHECKDATASIGVERIFY, "OP_CHECKDATASIGVERIFY", 1, opcodeCheckDataSigVerify},
	OP_REVERSEBYTES:       {OP_REVERSEBYTES, "OP_REVERSEBYTES", 1, opcodeReverseBytes},

	// Undefined opcodes.
	OP_UNKNOWN189: {OP_UNKNOWN189, "OP_UNKNOWN189", 1, opcodeInvalid},
	OP_UNKNOWN190: {OP_UNKNOWN190, "OP_UNKNOWN190", 1, opcodeInvalid},
	OP_UNKNOWN191: {OP_UNKNOWN191, "OP_UNKNOWN191", 1, opcodeInvalid},

	// Native introspection opcodes.
	OP_INPUTINDEX:            {OP_INPUTINDEX, "OP_INPUTINDEX", 1, opcodeInputIndex},
	OP_ACTIVEBYTECODE:        {OP_ACTIVEBYTECODE, "OP_ACTIVEBYTECODE", 1, opcodeActiveBytecode},
	OP_TXVERSION:             {OP_TXVERSION, "OP_TXVERSION", 1, opcodeTxVersion},
	OP_TXINPUTCOUNT:          {OP_TXINPUTCOUNT, "OP_TXINPUTCOUNT", 1, opcodeTxInputCount},
	OP_TXOUTPUTCOUNT:         {OP_TXOUTPUTCOUNT, "OP_TXOUTPUTCOUNT", 1, opcodeTxOutputCount},
	OP_TXLOCKTIME:            {OP_TXLOCKTIME, "OP_TXLOCKTIME", 1, opcodeTxLockTime},
	OP_UTXOVALUE:             {OP_UTXOVALUE, "OP_UTXOVALUE", 1, opcodeUtxoValue},
	OP_UTXOBYTECODE:          {OP_UTXOBYTECODE, "OP_UTXOBYTECODE", 1, opcodeUtxoBytecode},
	OP_OUTPOINTTXHASH:        {OP_OUTPOINTTXHASH, "OP_OUTPOINTTXHASH", 1, opcodeOutpointTxHash},
	OP_OUTPOINTINDEX:         {OP_OUTPOINTINDEX, "OP_OUTPOINTINDEX", 1, opcodeOutpointIndex},
	OP_INPUTBYTECODE:         {OP_INPUTBYTECODE, "OP_INPUTBYTECODE", 1, opcodeInputBytecode},
	OP_INPUTSEQUENCENUMBER:   {OP_INPUTSEQUENCENUMBER, "OP_INPUTSEQUENCENUMBER", 1, opcodeInputSequenceNumber},
	OP_OUTPUTVALUE:           {OP_OUTPUTVALUE, "OP_OUTPUTVALUE", 1, opcodeOutputValue},
	OP_OUTPUTBYTECODE:        {OP_OUTPUTBYTECODE, "OP_OUTPUTBYTECODE", 1, opcodeOutputBytecode},
	OP_UTXOTOKENCATEGORY:     {OP_UTXOTOKENCATEGORY, "OP_UTXOTOKENCATEGORY", 1, opcodeUtxoTokenCategory},
	OP_UTXOTOKENCOMMITMENT:   {OP_UTXOTOKENCOMMITMENT, "OP_UTXOTOKENCOMMITMENT", 1, opcodeUtxoTokenCommitment},
	OP_UTXOTOKENAMOUNT:       {OP_UTXOTOKENAMOUNT, "OP_UTXOTOKENAMOUNT", 1, opcodeUtxoTokenAmount},
	OP_OUTPUTTOKENCATEGORY:   {OP_OUTPUTTOKENCATEGORY, "OP_OUTPUTTOKENCATEGORY", 1, opcodeOutputTokenCategory},
	OP_OUTPUTTOKENCOMMITMENT: {OP_OUTPUTTOKENCOMMITMENT, "OP_OUTPUTTOKENCOMMITMENT", 1, opcodeOutputTokenCommitment},
	OP_OUTPUTTOKENAMOUNT:     {OP_OUTPUTTOKENAMOUNT, "OP_OUTPUTTOKENAMOUNT", 1, opcodeOutputTokenAmount},

	// Undefined opcodes.
	OP_UNKNOWN212: {OP_UNKNOWN212, "OP_UNKNOWN212", 1, opcodeInvalid},
	OP_UNKNOWN213: {OP_UNKNOWN213, "OP_UNKNOWN213", 1, opcodeInvalid},
	OP_UNKNOWN214: {OP_UNKNOWN214, "OP_UNKNOWN214", 1, opcodeInvalid},
	OP_UNKNOWN215: {OP_UNKNOWN215, "OP_UNKNOWN215", 1, opcodeInvalid},
	OP_UNKNOWN216: {OP_UNKNOWN216, "OP_UNKNOWN216", 1, opcodeInvalid},
	OP_UNKNOWN217: {OP_UNKNOWN217, "OP_UNKNOWN217", 1, opcodeInvalid},
	OP_UNKNOWN218: {OP_UNKNOWN218, "OP_UNKNOWN218", 1, opcodeInvalid},
	OP_UNKNOWN219: {OP_UNKNOWN219, "OP_UNKNOWN219", 1, opcodeInvalid},
	OP_UNKNOWN220: {OP_UNKNOWN220, "OP_UNKNOWN220", 1, opcodeInvalid},
	OP_UNKNOWN221: {OP_UNKNOWN221, "OP_UNKNOWN221", 1, opcodeInvalid},
	OP_UNKNOWN222: {OP_UNKNOWN222, "OP_UNKNOWN222", 1, opcodeInvalid},
	OP_UNKNOWN223: {OP_UNKNOWN223, "OP_UNKNOWN223", 1, opcodeInvalid},
	OP_UNKNOWN224: {OP_UNKNOWN224, "OP_UNKNOWN224", 1, opcodeInvalid},
	OP_UNKNOWN225: {OP_UNKNOWN225, "OP_UNKNOWN225", 1, opcodeInvalid},
	OP_UNKNOWN226: {OP_UNKNOWN226, "OP_UNKNOWN226", 1, opcodeInvalid},
	OP_UNKNOWN227: {OP_UNKNOWN227, "OP_UNKNOWN227", 1, opcodeInvalid},
	OP_UNKNOWN228: {OP_UNKNOWN228, "OP_UNKNOWN228", 1, opcodeInvalid},
	OP_UNKNOWN229: {OP_UNKNOWN229, "OP_UNKNOWN229", 1, opcodeInvalid},
	OP_UNKNOWN230: {OP_UNKNOWN230, "OP_UNKNOWN230", 1, opcodeInvalid},
	OP_UNKNOWN231: {OP_UNKNOWN231, "OP_UNKNOWN231", 1, opcodeInvalid},
	OP_UNKNOWN232: {OP_UNKNOWN232, "OP_UNKNOWN232", 1, opcodeInvalid},
	OP_UNKNOWN233: {OP_UNKNOWN233, "OP_UNKNOWN233", 1, opcodeInvalid},
	OP_UNKNOWN234: {OP_UNKNOWN234, "OP_UNKNOWN234", 1, opcodeInvalid},
	OP_UNKNOWN235: {OP_UNKNOWN235, "OP_UNKNOWN235", 1, opcodeInvalid},
	OP_UNKNOWN236: {OP_UNKNOWN236, "OP_UNKNOWN236", 1, opcodeInvalid},
	OP_UNKNOWN237: {OP_UNKNOWN237, "OP_UNKNOWN237", 1, opcodeInvalid},
	OP_UNKNOWN238: {OP_UNKNOWN238, "OP_UNKNOWN238", 1, opcodeInvalid},
	OP_UNKNOWN239: {OP_UNKNOWN239, "OP_UNKNOWN239", 1, opcodeInvalid},
	OP_UNKNOWN240: {OP_UNKNOWN240, "OP_UNKNOWN240", 1, opcodeInvalid},
	OP_UNKNOWN241: {OP_UNKNOWN241, "OP_UNKNOWN241", 1, opcodeInvalid},
	OP_UNKNOWN242: {OP_UNKNOWN242, "OP_UNKNOWN242", 1, opcodeInvalid},
	OP_UNKNOWN243: {OP_UNKNOWN243, "OP_UNKNOWN243", 1, opcodeInvalid},
	OP_UNKNOWN244: {OP_UNKNOWN244, "OP_UNKNOWN244", 1, opcodeInvalid},
	OP_UNKNOWN245: {OP_UNKNOWN245, "OP_UNKNOWN245", 1, opcodeInvalid},
	OP_UNKNOWN246: {OP_UNKNOWN246, "OP_UNKNOWN246", 1, opcodeInvalid},
	OP_UNKNOWN247: {OP_UNKNOWN247, "OP_UNKNOWN247", 1, opcodeInvalid},
	OP_UNKNOWN248: {OP_UNKNOWN248, "OP_UNKNOWN248", 1, opcodeInvalid},
	OP_UNKNOWN249: {OP_UNKNOWN249, "OP_UNKNOWN249", 1, opcodeInvalid},

	// Bitcoin Core internal use opcodes.  Defined here for completeness.
	OP_SMALLINTEGER:  {OP_SMALLINTEGER, "OP_SMALLINTEGER", 1, opcodeInvalid},
	OP_PUBKEYS:       {OP_PUBKEYS, "OP_PUBKEYS", 1, opcodeInvalid},
	OP_UNKNOWN252:    {OP_UNKNOWN252, "OP_UNKNOWN252", 1, opcodeInvalid},
	OP_PUBKEYHASH:    {OP_PUBKEYHASH, "OP_PUBKEYHASH", 1, opcodeInvalid},
	OP_PUBKEY:        {OP_PUBKEY, "OP_PUBKEY", 1, opcodeInvalid},
	OP_INVALIDOPCODE: {OP_INVALIDOPCODE, "OP_INVALIDOPCODE", 1, opcodeInvalid},
}

// opcodeOnelineRepls defines opcode names which are replaced when doing a
// one-line disassembly.  This is done to match the output of the reference
// implementation while not changing the opcode names in the nicer full
// disassembly.
var opcodeOnelineRepls = map[string]string{
	"OP_1NEGATE": "-1",
	"OP_0":       "0",
	"OP_1":       "1",
	"OP_2":       "2",
	"OP_3":       "3",
	"OP_4":       "4",
	"OP_5":       "5",
	"OP_6":       "6",
	"OP_7":       "7",
	"OP_8":       "8",
	"OP_9":       "9",
	"OP_10":      "10",
	"OP_11":      "11",
	"OP_12":      "12",
	"OP_13":      "13",
	"OP_14":      "14",
	"OP_15":      "15",
	"OP_16":      "16",
}

// disasmOpcode writes a human-readable disassembly of the provided opcode and
// data into the provided buffer.  The compact flag indicates the disassembly
// should print a more compact representation of data-carrying and small integer
// opcodes.  For example, OP_0 through OP_16 are replaced with the numeric value
// and data pushes are printed as only the hex representation of the data as
// opposed to including the opcode that specifies the amount of data to push as
// well.
func disasmOpcode(buf *strings.Builder, op *opcode, data []byte, compact bool) {
	// Replace opcode which represent values (e.g. OP_0 through OP_16 and
	// OP_1NEGATE) with the raw value when performing a compact disassembly.
	opcodeName := op.name
	if compact {
		if replName, ok := opcodeOnelineRepls[opcodeName]; ok {
			opcodeName = replName
		}

		// Either write the human-readable opcode or the parsed data in hex for
		// data-carrying opcodes.
		switch {
		case op.length == 1:
			buf.WriteString(opcodeName)

		default:
			buf.WriteString(hex.EncodeToString(data))
		}

		return
	}

	buf.WriteString(opcodeName)

	switch op.length {
	// Only write the opcode name for non-data push opcodes.
	case 1:
		return

	// Add length for the OP_PUSHDATA# opcodes.
	case -1:
		buf.WriteString(fmt.Sprintf(" 0x%02x", len(data)))
	case -2:
		buf.WriteString(fmt.Sprintf(" 0x%04x", len(data)))
	case -4:
		buf.WriteString(fmt.Sprintf(" 0x%08x", len(data)))
	}

	buf.WriteString(fmt.Sprintf(" 0x%02x", data))
}

// isOpcodeDisabled returns whether the opcode is disabled under the provided
// flags.  Disabled opcodes fail the script even when they appear in a branch
// that is not executed.
func isOpcodeDisabled(opcode byte, flags ScriptFlags) bool {
	switch opcode {
	case OP_INVERT, OP_2MUL, OP_2DIV, OP_LSHIFT, OP_RSHIFT:
		return true

	case OP_MUL:
		return !flags.HasFlag(ScriptVerify64BitIntegers) &&
			!flags.HasFlag(ScriptVerifyBigIntegers)
	}

	return false
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeDisabled is a common handler for disabled opcodes.  It returns an
// appropriate error indicating the opcode is disabled.  The engine rejects
// disabled opcodes before dispatch, including in branches that are not
// executed, so this is only reached when an opcode is called directly.
func opcodeDisabled(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute disabled opcode %s", op.name)
	return scriptError(ErrDisabledOpcode, str)
}

// opcodeReserved is a common handler for all reserved opcodes.  It returns an
// appropriate error indicating the opcode is reserved.
func opcodeReserved(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
	return scriptError(ErrBadOpcode, str)
}

// opcodeInvalid is a common handler for all invalid opcodes.  It returns an
// appropriate error indicating the opcode is invalid.
func opcodeInvalid(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute invalid opcode %s", op.name)
	return scriptError(ErrBadOpcode, str)
}

// opcodeFalse pushes an empty array to the data stack to represent false.  Note
// that 0, when encoded as a number according to the numeric encoding consensus
// rules, is an empty array.
func opcodeFalse(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(nil)
	return nil
}

// opcodePushData is a common handler for the vast majority of opcodes that push
// raw data (bytes) to the data stack.
func opcodePushData(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(data)
	return nil
}

// opcode1Negate pushes -1, encoded as a number, to the data stack.
func opcode1Negate(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(NewScriptNum(-1))
	return nil
}

// opcodeN is a common handler for the small integer data push opcodes.  It
// pushes the numeric value the opcode represents (which will be from 1 to 16)
// onto the data stack.
func opcodeN(op *opcode, data []byte, vm *Engine) error {
	// The opcodes are all defined consecutively, so the numeric value is
	// the difference.
	vm.dstack.PushInt(NewScriptNum(int64(op.value - (OP_1 - 1))))
	return nil
}

// opcodeNop is a common handler for the NOP family of opcodes.  As the name
// implies it generally does nothing, however, it will return an error when
// the flag to discourage use of NOPs is set for select opcodes.
func opcodeNop(op *opcode, data []byte, vm *Engine) error {
	switch op.value {
	case OP_NOP1, OP_NOP4, OP_NOP5,
		OP_NOP6, OP_NOP7, OP_NOP8, OP_NOP9, OP_NOP10:

		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			str := fmt.Sprintf("%v reserved for soft-fork upgrades",
				op.name)
			return scriptError(ErrDiscourageUpgradableNOPs, str)
		}
	}
	return nil
}

// popIfBool pops the top item off the stack and returns a bool according to
// the conditional semantics.  When the minimal if flag is set, the operand
// must be either an empty vector or [0x01].
func popIfBool(vm *Engine) (bool, error) {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}

	if vm.hasFlag(ScriptVerifyMinimalIf) {
		if len(so) > 1 {
			str := fmt.Sprintf("minimal if is active, top element MUST "+
				"have a length of at most 1, but it is %d bytes",
				len(so))
			return false, scriptError(ErrMinimalIf, str)
		}
		if len(so) == 1 && so[0] != 0x01 {
			str := fmt.Sprintf("minimal if is active, top stack item "+
				"MUST be an empty byte array or 0x01, but it is %x", so)
			return false, scriptError(ErrMinimalIf, str)
		}
	}

	return asBool(so), nil
}

// opcodeIf treats the top item on the data stack as a boolean and removes it.
//
// An appropriate entry is added to the condition stack depending on whether
// the boolean is true and whether this if is on an executing branch in order
// to allow proper execution of further opcodes depending on the conditional
// logic.  When the boolean is true, the first branch will be executed (unless
// this opcode is nested in a non-executed branch).
//
// <expression> if [statements] [else [statements]] endif
//
// Note that, unlike for all non-conditional opcodes, this is executed even when
// it is on a non-executing branch so proper nesting is maintained.
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeIf(op *opcode, data []byte, vm *Engine) error {
	condVal := false
	if vm.isBranchExecuting() {
		if vm.dstack.Depth() < 1 {
			str := fmt.Sprintf("%s requires a condition on the stack",
				op.name)
			return scriptError(ErrUnbalancedConditional, str)
		}
		ok, err := popIfBool(vm)
		if err != nil {
			return err
		}
		condVal = ok
	}

	vm.condStack.push(condVal)
	return nil
}

// opcodeNotIf treats the top item on the data stack as a boolean and removes
// it.
//
// An appropriate entry is added to the condition stack depending on whether
// the boolean is true and whether this if is on an executing branch in order
// to allow proper execution of further opcodes depending on the conditional
// logic.  When the boolean is false, the first branch will be executed (unless
// this opcode is nested in a non-executed branch).
//
// <expression> notif [statements] [else [statements]] endif
//
// Note that, unlike for all non-conditional opcodes, this is executed even when
// it is on a non-executing branch so proper nesting is maintained.
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeNotIf(op *opcode, data []byte, vm *Engine) error {
	condVal := false
	if vm.isBranchExecuting() {
		if vm.dstack.Depth() < 1 {
			str := fmt.Sprintf("%s requires a condition on the stack",
				op.name)
			return scriptError(ErrUnbalancedConditional, str)
		}
		ok, err := popIfBool(vm)
		if err != nil {
			return err
		}
		condVal = !ok
	}

	vm.condStack.push(condVal)
	return nil
}

// opcodeElse inverts conditional execution for other half of if/else/endif.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [... !OpCondValue]
func opcodeElse(op *opcode, data []byte, vm *Engine) error {
	if vm.condStack.empty() {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	vm.condStack.toggleTop()
	return nil
}

// opcodeEndif terminates a conditional block, removing the value from the
// conditional execution stack.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [...]
func opcodeEndif(op *opcode, data []byte, vm *Engine) error {
	if vm.condStack.empty() {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	vm.condStack.pop()
	return nil
}

// abstractVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned either when there is no
// item on the stack or when that item evaluates to false.  In the latter case
// where the verification fails specifically due to the top item evaluating
// to false, the returned error will use the passed error code.
func abstractVerify(op *opcode, vm *Engine, c ErrorCode) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}

	if !verified {
		str := fmt.Sprintf("%s failed", op.name)
		return scriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned if it does not.
func opcodeVerify(op *opcode, data []byte, vm *Engine) error {
	return abstractVerify(op, vm, ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *opcode, data []byte, vm *Engine) error {
	return scriptError(ErrOpReturn, "script returned early")
}

// decodeLockTimeOperand decodes the lock time operand of OP_CHECKLOCKTIMEVERIFY
// and OP_CHECKSEQUENCEVERIFY.  The operand is left on the stack.
func decodeLockTimeOperand(op *opcode, vm *Engine) (ScriptNum, error) {
	if err := vm.requireDepth(op, 1); err != nil {
		return ScriptNum{}, err
	}

	// The current transaction locktime is a uint32 resulting in a maximum
	// locktime of 2^32-1.  However, scriptNums are signed and therefore a
	// standard 4-byte scriptNum would only support up to a maximum of
	// 2^31-1.  Thus, a 5-byte scriptNum is used here since it will support
	// up to 2^39-1 which allows dates beyond the current locktime limit.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return ScriptNum{}, err
	}
	lockTime, err := MakeScriptNum(so, vm.dstack.verifyMinimalData,
		lockTimeScriptNumLen)
	if err != nil {
		return ScriptNum{}, err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKLOCKTIMEVERIFY.
	if lockTime.Sign() < 0 {
		str := fmt.Sprintf("negative lock time: %v", lockTime)
		return ScriptNum{}, scriptError(ErrNegativeLockTime, str)
	}
	return lockTime, nil
}

// opcodeCheckLockTimeVerify compares the top item on the data stack to the
// LockTime field of the transaction containing the script signature
// validating if the transaction outputs are spendable yet.  If flag
// ScriptVerifyCheckLockTimeVerify is not set, the code continues as if OP_NOP2
// were executed.
func opcodeCheckLockTimeVerify(op *opcode, data []byte, vm *Engine) error {
	// If the ScriptVerifyCheckLockTimeVerify script flag is not set, treat
	// opcode as OP_NOP2 instead.
	if !vm.hasFlag(ScriptVerifyCheckLockTimeVerify) {
		return opcodeNop(op, data, vm)
	}

	lockTime, err := decodeLockTimeOperand(op, vm)
	if err != nil {
		return err
	}

	if !vm.checker.CheckLockTime(lockTime) {
		str := fmt.Sprintf("lock time %v is not satisfied by the "+
			"transaction", lockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}
	return nil
}

// opcodeCheckSequenceVerify compares the top item on the data stack to the
// Sequence field of the input being validated, enforcing a relative lock time
// on the spent output.  If flag ScriptVerifyCheckSequenceVerify is not set,
// the code continues as if OP_NOP3 were executed.
func opcodeCheckSequenceVerify(op *opcode, data []byte, vm *Engine) error {
	// If the ScriptVerifyCheckSequenceVerify script flag is not set, treat
	// opcode as OP_NOP3 instead.
	if !vm.hasFlag(ScriptVerifyCheckSequenceVerify) {
		return opcodeNop(op, data, vm)
	}

	sequence, err := decodeLockTimeOperand(op, vm)
	if err != nil {
		return err
	}

	// To provide for future soft-fork extensibility, if the operand has the
	// disabled lock-time flag set, CHECKSEQUENCEVERIFY behaves as a NOP.
	if sequence.Int64()&int64(wire.SequenceLockTimeDisabled) != 0 {
		return nil
	}

	if !vm.checker.CheckSequence(sequence) {
		str := fmt.Sprintf("sequence %v is not satisfied by the "+
			"input", sequence)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}
	return nil
}

// opcodeToAltStack removes the top item from the main data stack and pushes it
// onto the alternate data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2 y3 x3]
func opcodeToAltStack(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)

	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 y3]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2]
func opcodeFromAltStack(op *opcode, data []byte, vm *Engine) error {
	if vm.astack.Depth() < 1 {
		str := fmt.Sprintf("%s requires an item on the alternate "+
			"stack", op.name)
		return scriptError(ErrInvalidAltStackOperation, str)
	}

	so, err := vm.astack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)

	return nil
}

// opcode2Drop removes the top 2 items from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1]
func opcode2Drop(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}
	return vm.dstack.DropN(2)
}

// opcode2Dup duplicates the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2 x3]
func opcode2Dup(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}
	return vm.dstack.DupN(2)
}

// opcode3Dup duplicates the top 3 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x1 x2 x3]
func opcode3Dup(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 3); err != nil {
		return err
	}
	return vm.dstack.DupN(3)
}

// opcode2Over duplicates the 2 items before the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x1 x2 x3 x4 x1 x2]
func opcode2Over(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 4); err != nil {
		return err
	}
	return vm.dstack.OverN(2)
}

// opcode2Rot rotates the top 6 items on the data stack to the left twice.
//
// Stack transformation: [... x1 x2 x3 x4 x5 x6] -> [... x3 x4 x5 x6 x1 x2]
func opcode2Rot(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 6); err != nil {
		return err
	}
	return vm.dstack.RotN(2)
}

// opcode2Swap swaps the top 2 items on the data stack with the 2 that come
// before them.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x3 x4 x1 x2]
func opcode2Swap(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 4); err != nil {
		return err
	}
	return vm.dstack.SwapN(2)
}

// opcodeIfDup duplicates the top item of the stack if it is not zero.
//
// Stack transformation (x1==0): [... x1] -> [... x1]
// Stack transformation (x1!=0): [... x1] -> [... x1 x1]
func opcodeIfDup(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	// Push copy of data iff it isn't zero
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}

	return nil
}

// opcodeDepth pushes the depth of the data stack prior to executing this
// opcode, encoded as a number, onto the data stack.
//
// Stack transformation: [...] -> [... <num of items on the stack>]
// Example with 2 items: [x1 x2] -> [x1 x2 2]
// Example with 3 items: [x1 x2 x3] -> [x1 x2 x3 3]
func opcodeDepth(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(NewScriptNum(int64(vm.dstack.Depth())))
	return nil
}

// opcodeDrop removes the top item from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func opcodeDrop(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DropN(1)
}

// opcodeDup duplicates the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x3]
func opcodeDup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(1)
}

// opcodeNip removes the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x3]
func opcodeNip(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.NipN(1)
}

// opcodeOver duplicates the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2]
func opcodeOver(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.OverN(1)
}

// pickOrRollIndex decodes and pops the index operand of OP_PICK and OP_ROLL
// and ensures it refers to an item remaining on the stack.
func pickOrRollIndex(op *opcode, vm *Engine) (int32, error) {
	if err := vm.requireDepth(op, 2); err != nil {
		return 0, err
	}

	val, err := vm.dstack.PopInt()
	if err != nil {
		return 0, err
	}

	n := val.Int64()
	if n < 0 || n >= int64(vm.dstack.Depth()) {
		str := fmt.Sprintf("%s index %v is invalid for stack size %d",
			op.name, val, vm.dstack.Depth())
		return 0, scriptError(ErrInvalidStackOperation, str)
	}
	return int32(n), nil
}

// opcodePick treats the top item on the data stack as an integer and duplicates
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x1 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x2 x1 x0 x2]
func opcodePick(op *opcode, data []byte, vm *Engine) error {
	n, err := pickOrRollIndex(op, vm)
	if err != nil {
		return err
	}

	so, err := vm.dstack.PeekByteArray(n)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)
	return nil
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x1 x0 x2]
func opcodeRoll(op *opcode, data []byte, vm *Engine) error {
	n, err := pickOrRollIndex(op, vm)
	if err != nil {
		return err
	}

	so, err := vm.dstack.nipN(n)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)
	return nil
}

// opcodeRot rotates the top 3 items on the data stack to the left.
//
// Stack transformation: [... x1 x2 x3] -> [... x2 x3 x1]
func opcodeRot(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 3); err != nil {
		return err
	}
	return vm.dstack.RotN(1)
}

// opcodeSwap swaps the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2 x1]
func opcodeSwap(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}
	return vm.dstack.SwapN(1)
}

// opcodeTuck inserts a duplicate of the top item of the data stack before the
// second-to-top item.
//
// Stack transformation: [... x1 x2] -> [... x2 x1 x2]
func opcodeTuck(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}
	return vm.dstack.Tuck()
}

// opcodeCat concatenates the top two items on the data stack.  The result may
// not exceed the maximum element size.
//
// Stack transformation: [... x1 x2] -> [... x1||x2]
func opcodeCat(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}

	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a)+len(b) > MaxScriptElementSize {
		str := fmt.Sprintf("concatenated size %d exceeds the max "+
			"allowed size %d", len(a)+len(b), MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}

	cat := make([]byte, 0, len(a)+len(b))
	cat = append(cat, a...)
	cat = append(cat, b...)
	vm.dstack.PushByteArray(cat)
	return nil
}

// opcodeSplit splits the second-to-top item on the data stack at the position
// given by the top item.
//
// Stack transformation: [... x n] -> [... x[:n] x[n:]]
func opcodeSplit(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}

	so, err := vm.dstack.PeekByteArray(1)
	if err != nil {
		return err
	}
	pos, err := vm.dstack.PeekInt(0)
	if err != nil {
		return err
	}

	n := pos.Int64()
	if n < 0 || n > int64(len(so)) {
		str := fmt.Sprintf("split position %v is outside of the %d "+
			"byte operand", pos, len(so))
		return scriptError(ErrInvalidSplitRange, str)
	}

	// The halves are copied since stack items are shared.
	n1 := make([]byte, n)
	copy(n1, so[:n])
	n2 := make([]byte, int64(len(so))-n)
	copy(n2, so[n:])

	if err := vm.dstack.DropN(2); err != nil {
		return err
	}
	vm.dstack.PushByteArray(n1)
	vm.dstack.PushByteArray(n2)
	return nil
}

// opcodeNum2Bin converts the second-to-top item on the data stack into a byte
// sequence of the length given by the top item, padding the numeric encoding
// with zeros and carrying the sign bit into the final byte.
//
// Stack transformation: [... num size] -> [... bin]
func opcodeNum2Bin(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}

	sizeNum, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	// Negative sizes are treated as huge unsigned values.
	size := sizeNum.Int64()
	if size < 0 || size > MaxScriptElementSize {
		str := fmt.Sprintf("requested size %v exceeds the max allowed "+
			"size %d", sizeNum, MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}

	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	rawNum := MinimallyEncode(so)
	if int64(len(rawNum)) > size {
		str := fmt.Sprintf("value %x can not be encoded in %d bytes",
			so, size)
		return scriptError(ErrImpossibleEncoding, str)
	}

	if int64(len(rawNum)) == size {
		vm.dstack.PushByteArray(rawNum)
		return nil
	}

	result := make([]byte, size)
	copy(result, rawNum)

	// Move the sign bit from the minimal encoding to the last byte.
	var signBit byte
	if len(rawNum) > 0 {
		signBit = rawNum[len(rawNum)-1] & 0x80
		result[len(rawNum)-1] &= 0x7f
	}
	result[size-1] |= signBit

	vm.dstack.PushByteArray(result)
	return nil
}

// opcodeBin2Num converts the top item on the data stack into its minimal
// numeric encoding.  The result must fit the active numeric operand width.
//
// Stack transformation: [... bin] -> [... num]
func opcodeBin2Num(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	n := MinimallyEncode(so)
	if err := vm.regime.checkEncoded(n); err != nil {
		return err
	}
	vm.dstack.PushByteArray(n)
	return nil
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(NewScriptNum(int64(len(so))))
	return nil
}

// bitwiseOp applies the byte-wise operation fn to the top two items of the
// data stack, which must be the same size.
//
// Stack transformation: [... x1 x2] -> [... fn(x1, x2)]
func bitwiseOp(op *opcode, vm *Engine, fn func(a, b byte) byte) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}

	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a) != len(b) {
		str := fmt.Sprintf("%s operands differ in size: %d and %d",
			op.name, len(a), len(b))
		return scriptError(ErrInvalidOperandSize, str)
	}

	result := make([]byte, len(a))
	for i := range a {
		result[i] = fn(a[i], b[i])
	}
	vm.dstack.PushByteArray(result)
	return nil
}

// opcodeAnd computes the bitwise AND of the top two items on the data stack.
//
// Stack transformation: [... x1 x2] -> [... x1&x2]
func opcodeAnd(op *opcode, data []byte, vm *Engine) error {
	return bitwiseOp(op, vm, func(a, b byte) byte { return a & b })
}

// opcodeOr computes the bitwise OR of the top two items on the data stack.
//
// Stack transformation: [... x1 x2] -> [... x1|x2]
func opcodeOr(op *opcode, data []byte, vm *Engine) error {
	return bitwiseOp(op, vm, func(a, b byte) byte { return a | b })
}

// opcodeXor computes the bitwise XOR of the top two items on the data stack.
//
// Stack transformation: [... x1 x2] -> [... x1^x2]
func opcodeXor(op *opcode, data []byte, vm *Engine) error {
	return bitwiseOp(op, vm, func(a, b byte) byte { return a ^ b })
}

// opcodeEqual removes the top 2 items of the data stack, compares them as raw
// bytes, and pushes the result, encoded as a boolean, back to the stack.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}

	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
// Specifically, it removes the top 2 items of the data stack, compares them,
// and pushes the result, encoded as a boolean, back to the stack.  Then, it
// examines the top item on the data stack as a boolean value and verifies it
// evaluates to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeEqualVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeEqual(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrEqualVerify)
	}
	return err
}

// unaryNumericOp replaces the top item of the data stack, interpreted as a
// number, with the result of fn.  Results are range checked against the
// active numeric rules.
func unaryNumericOp(op *opcode, vm *Engine, fn func(ScriptNum) ScriptNum) error {
	if err := vm.requireDepth(op, 1); err != nil {
		return err
	}

	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	result, err := vm.regime.checkResult(fn(m))
	if err != nil {
		return err
	}
	vm.dstack.PushInt(result)
	return nil
}

// opcode1Add treats the top item on the data stack as an integer and replaces
// it with its incremented value (plus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2+1]
func opcode1Add(op *opcode, data []byte, vm *Engine) error {
	return unaryNumericOp(op, vm, func(m ScriptNum) ScriptNum {
		return m.Add(NewScriptNum(1))
	})
}

// opcode1Sub treats the top item on the data stack as an integer and replaces
// it with its decremented value (minus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2-1]
func opcode1Sub(op *opcode, data []byte, vm *Engine) error {
	return unaryNumericOp(op, vm, func(m ScriptNum) ScriptNum {
		return m.Sub(NewScriptNum(1))
	})
}

// opcodeNegate treats the top item on the data stack as an integer and replaces
// it with its negation.
//
// Stack transformation: [... x1 x2] -> [... x1 -x2]
func opcodeNegate(op *opcode, data []byte, vm *Engine) error {
	return unaryNumericOp(op, vm, ScriptNum.Negate)
}

// opcodeAbs treats the top item on the data stack as an integer and replaces it
// it with its absolute value.
//
// Stack transformation: [... x1 x2] -> [... x1 abs(x2)]
func opcodeAbs(op *opcode, data []byte, vm *Engine) error {
	return unaryNumericOp(op, vm, ScriptNum.Abs)
}

// opcodeNot treats the top item on the data stack as an integer and replaces
// it with its "inverted" value (0 becomes 1, non-zero becomes 0).
//
// NOTE: While it would probably make more sense to treat the top item as a
// boolean, and push the opposite, which is really what the intention of this
// opcode is, it is extremely important that is not done because integers are
// interpreted differently than booleans and the consensus rules for this opcode
// dictate the item is interpreted as an integer.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 0]
func opcodeNot(op *opcode, data []byte, vm *Engine) error {
	return unaryNumericOp(op, vm, func(m ScriptNum) ScriptNum {
		if m.IsZero() {
			return NewScriptNum(1)
		}
		return NewScriptNum(0)
	})
}

// opcode0NotEqual treats the top item on the data stack as an integer and
// replaces it with either a 0 if it is zero, or a 1 if it is not zero.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 1]
func opcode0NotEqual(op *opcode, data []byte, vm *Engine) error {
	return unaryNumericOp(op, vm, func(m ScriptNum) ScriptNum {
		if m.IsZero() {
			return NewScriptNum(0)
		}
		return NewScriptNum(1)
	})
}

// popNumericOperands decodes the top two items of the data stack as numbers
// and removes them.  The second-to-top item is decoded first so that encoding
// errors are reported in operand order.
//
// Stack transformation: [... x1 x2] -> [...]
func popNumericOperands(op *opcode, vm *Engine) (ScriptNum, ScriptNum, error) {
	if err := vm.requireDepth(op, 2); err != nil {
		return ScriptNum{}, ScriptNum{}, err
	}

	v0, err := vm.dstack.PeekInt(1)
	if err != nil {
		return ScriptNum{}, ScriptNum{}, err
	}
	v1, err := vm.dstack.PeekInt(0)
	if err != nil {
		return ScriptNum{}, ScriptNum{}, err
	}

	if err := vm.dstack.DropN(2); err != nil {
		return ScriptNum{}, ScriptNum{}, err
	}
	return v0, v1, nil
}

// binaryNumericOp replaces the top two items of the data stack, interpreted
// as numbers, with the result of fn.  Results are range checked against the
// active numeric rules.
func binaryNumericOp(op *opcode, vm *Engine, fn func(a, b ScriptNum) (ScriptNum, error)) error {
	v0, v1, err := popNumericOperands(op, vm)
	if err != nil {
		return err
	}

	result, err := fn(v0, v1)
	if err != nil {
		return err
	}
	if result, err = vm.regime.checkResult(result); err != nil {
		return err
	}
	vm.dstack.PushInt(result)
	return nil
}

// compareNumericOp replaces the top two items of the data stack, interpreted
// as numbers, with the boolean result of fn.
func compareNumericOp(op *opcode, vm *Engine, fn func(a, b ScriptNum) bool) error {
	v0, v1, err := popNumericOperands(op, vm)
	if err != nil {
		return err
	}

	vm.dstack.PushBool(fn(v0, v1))
	return nil
}

// opcodeAdd treats the top two items on the data stack as integers and replaces
// them with their sum.
//
// Stack transformation: [... x1 x2] -> [... x1+x2]
func opcodeAdd(op *opcode, data []byte, vm *Engine) error {
	return binaryNumericOp(op, vm, func(a, b ScriptNum) (ScriptNum, error) {
		return a.Add(b), nil
	})
}

// opcodeSub treats the top two items on the data stack as integers and replaces
// them with the result of subtracting the top entry from the second-to-top
// entry.
//
// Stack transformation: [... x1 x2] -> [... x1-x2]
func opcodeSub(op *opcode, data []byte, vm *Engine) error {
	return binaryNumericOp(op, vm, func(a, b ScriptNum) (ScriptNum, error) {
		return a.Sub(b), nil
	})
}

// opcodeMul treats the top two items on the data stack as integers and replaces
// them with their product.
//
// Stack transformation: [... x1 x2] -> [... x1*x2]
func opcodeMul(op *opcode, data []byte, vm *Engine) error {
	return binaryNumericOp(op, vm, func(a, b ScriptNum) (ScriptNum, error) {
		return a.Mul(b), nil
	})
}

// opcodeDiv treats the top two items on the data stack as integers and replaces
// them with the quotient of the second-to-top item divided by the top item.
// The quotient is truncated toward zero.
//
// Stack transformation: [... x1 x2] -> [... x1/x2]
func opcodeDiv(op *opcode, data []byte, vm *Engine) error {
	return binaryNumericOp(op, vm, func(a, b ScriptNum) (ScriptNum, error) {
		if b.IsZero() {
			return ScriptNum{}, scriptError(ErrDivByZero,
				"division by zero")
		}
		return a.Div(b), nil
	})
}

// opcodeMod treats the top two items on the data stack as integers and replaces
// them with the remainder of the second-to-top item divided by the top item.
// The sign of the remainder follows the dividend.
//
// Stack transformation: [... x1 x2] -> [... x1%x2]
func opcodeMod(op *opcode, data []byte, vm *Engine) error {
	return binaryNumericOp(op, vm, func(a, b ScriptNum) (ScriptNum, error) {
		if b.IsZero() {
			return ScriptNum{}, scriptError(ErrModByZero,
				"modulo by zero")
		}
		return a.Mod(b), nil
	})
}

// opcodeBoolAnd treats the top two items on the data stack as integers.  When
// both of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 0]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 0]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolAnd(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return !a.IsZero() && !b.IsZero()
	})
}

// opcodeBoolOr treats the top two items on the data stack as integers.  When
// either of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 1]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 1]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolOr(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return !a.IsZero() || !b.IsZero()
	})
}

// opcodeNumEqual treats the top two items on the data stack as integers.  When
// they are equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 1]
// Stack transformation (x1!=x2): [... 5 7] -> [... 0]
func opcodeNumEqual(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return a.Cmp(b) == 0
	})
}

// opcodeNumEqualVerify is a combination of opcodeNumEqual and opcodeVerify.
//
// Specifically, treats the top two items on the data stack as integers.  When
// they are equal, they are replaced with a 1, otherwise a 0.  Then, it examines
// the top item on the data stack as a boolean value and verifies it evaluates
// to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeNumEqualVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeNumEqual(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrNumEqualVerify)
	}
	return err
}

// opcodeNumNotEqual treats the top two items on the data stack as integers.
// When they are NOT equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 0]
// Stack transformation (x1!=x2): [... 5 7] -> [... 1]
func opcodeNumNotEqual(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return a.Cmp(b) != 0
	})
}

// opcodeLessThan treats the top two items on the data stack as integers.  When
// the second-to-top item is less than the top item, they are replaced with a 1,
// otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThan(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return a.Cmp(b) < 0
	})
}

// opcodeGreaterThan treats the top two items on the data stack as integers.
// When the second-to-top item is greater than the top item, they are replaced
// with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThan(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return a.Cmp(b) > 0
	})
}

// opcodeLessThanOrEqual treats the top two items on the data stack as integers.
// When the second-to-top item is less than or equal to the top item, they are
// replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThanOrEqual(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return a.Cmp(b) <= 0
	})
}

// opcodeGreaterThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is greater than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThanOrEqual(op *opcode, data []byte, vm *Engine) error {
	return compareNumericOp(op, vm, func(a, b ScriptNum) bool {
		return a.Cmp(b) >= 0
	})
}

// opcodeMin treats the top two items on the data stack as integers and replaces
// them with the minimum of the two.
//
// Stack transformation: [... x1 x2] -> [... min(x1, x2)]
func opcodeMin(op *opcode, data []byte, vm *Engine) error {
	return binaryNumericOp(op, vm, func(a, b ScriptNum) (ScriptNum, error) {
		if a.Cmp(b) < 0 {
			return a, nil
		}
		return b, nil
	})
}

// opcodeMax treats the top two items on the data stack as integers and replaces
// them with the maximum of the two.
//
// Stack transformation: [... x1 x2] -> [... max(x1, x2)]
func opcodeMax(op *opcode, data []byte, vm *Engine) error {
	return binaryNumericOp(op, vm, func(a, b ScriptNum) (ScriptNum, error) {
		if a.Cmp(b) > 0 {
			return a, nil
		}
		return b, nil
	})
}

// opcodeWithin treats the top 3 items on the data stack as integers.  When the
// value to test is within the specified range (left inclusive), they are
// replaced with a 1, otherwise a 0.
//
// The top item is the max value, the second-top-item is the minimum value, and
// the third-to-top item is the value to test.
//
// Stack transformation: [... x1 min max] -> [... bool]
func opcodeWithin(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 3); err != nil {
		return err
	}

	x, err := vm.dstack.PeekInt(2)
	if err != nil {
		return err
	}
	minVal, err := vm.dstack.PeekInt(1)
	if err != nil {
		return err
	}
	maxVal, err := vm.dstack.PeekInt(0)
	if err != nil {
		return err
	}

	if err := vm.dstack.DropN(3); err != nil {
		return err
	}
	vm.dstack.PushBool(minVal.Cmp(x) <= 0 && x.Cmp(maxVal) < 0)
	return nil
}

// calcHash calculates the hash of hasher over buf.
func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// hashOp replaces the top item of the data stack with its digest as computed
// by fn.
func hashOp(op *opcode, vm *Engine, fn func([]byte) []byte) error {
	if err := vm.requireDepth(op, 1); err != nil {
		return err
	}

	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(fn(buf))
	return nil
}

// opcodeRipemd160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(data).
//
// Stack transformation: [... x1] -> [... ripemd160(x1)]
func opcodeRipemd160(op *opcode, data []byte, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		return calcHash(buf, ripemd160.New())
	})
}

// opcodeSha1 treats the top item of the data stack as raw bytes and replaces it
// with sha1(data).
//
// Stack transformation: [... x1] -> [... sha1(x1)]
func opcodeSha1(op *opcode, data []byte, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		sum := sha1.Sum(buf)
		return sum[:]
	})
}

// opcodeSha256 treats the top item of the data stack as raw bytes and replaces
// it with sha256(data).
//
// Stack transformation: [... x1] -> [... sha256(x1)]
func opcodeSha256(op *opcode, data []byte, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		sum := sha256.Sum256(buf)
		return sum[:]
	})
}

// opcodeHash160 treats the top item of the data stack as raw bytes and replaces
// it with ripemd160(sha256(data)).
//
// Stack transformation: [... x1] -> [... ripemd160(sha256(x1))]
func opcodeHash160(op *opcode, data []byte, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		sum := sha256.Sum256(buf)
		return calcHash(sum[:], ripemd160.New())
	})
}

// opcodeHash256 treats the top item of the data stack as raw bytes and replaces
// it with sha256(sha256(data)).
//
// Stack transformation: [... x1] -> [... sha256(sha256(x1))]
func opcodeHash256(op *opcode, data []byte, vm *Engine) error {
	return hashOp(op, vm, chainhash.DoubleHashB)
}

// opcodeCodeSeparator stores the current script offset as the most recently
// seen OP_CODESEPARATOR which is used during signature checking.
//
// This opcode does not change the contents of the data stack.
func opcodeCodeSeparator(op *opcode, data []byte, vm *Engine) error {
	vm.lastCodeSep = vm.tokenizer.ByteIndex()
	return nil
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool which indicates if the signature was
// successfully verified.
//
// The signature may be ECDSA or Schnorr, told apart by its length, and ends
// with a byte holding the signature hash type.  The script code covered by the
// signature starts after the most recently executed OP_CODESEPARATOR.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 2); err != nil {
		return err
	}

	pkBytes, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	sigBytes, err := vm.dstack.PeekByteArray(1)
	if err != nil {
		return err
	}

	if err := checkTransactionSignatureEncoding(sigBytes, vm.flags); err != nil {
		return err
	}
	if err := checkPubKeyEncoding(pkBytes, vm.flags); err != nil {
		return err
	}

	valid := false
	if len(sigBytes) > 0 {
		scriptCode := cleanupScriptCode(vm.subScript(), sigBytes, vm.flags)
		valid, err = vm.checker.CheckSig(sigBytes, pkBytes, scriptCode,
			vm.flags)
		if err != nil {
			return err
		}
		vm.metrics.SigChecks++

		if !valid && vm.hasFlag(ScriptVerifyNullFail) {
			str := "signature not empty on failed checksig"
			return scriptError(ErrSigNullFail, str)
		}
	}

	if err := vm.dstack.DropN(2); err != nil {
		return err
	}
	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
// The opcodeCheckSig function is invoked followed by opcodeVerify.  See the
// documentation for each of those opcodes for more details.
//
// Stack transformation: [... signature pubkey] -> [... bool] -> [...]
func opcodeCheckSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckSigVerify)
	}
	return err
}

// opcodeCheckDataSig treats the top 3 items on the stack as a signature, a
// message and a public key and replaces them with a bool which indicates if
// the signature over sha256(message) was successfully verified.  Unlike
// OP_CHECKSIG the signature carries no hash type byte.
//
// Stack transformation: [... signature message pubkey] -> [... bool]
func opcodeCheckDataSig(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 3); err != nil {
		return err
	}

	sigBytes, err := vm.dstack.PeekByteArray(2)
	if err != nil {
		return err
	}
	msg, err := vm.dstack.PeekByteArray(1)
	if err != nil {
		return err
	}
	pkBytes, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	if err := checkDataSignatureEncoding(sigBytes, vm.flags); err != nil {
		return err
	}
	if err := checkPubKeyEncoding(pkBytes, vm.flags); err != nil {
		return err
	}

	valid := false
	if len(sigBytes) > 0 {
		sum := sha256.Sum256(msg)
		valid = vm.checker.VerifySignature(sigBytes, pkBytes, sum[:])
		vm.metrics.SigChecks++

		if !valid && vm.hasFlag(ScriptVerifyNullFail) {
			str := "signature not empty on failed checkdatasig"
			return scriptError(ErrSigNullFail, str)
		}
	}

	if err := vm.dstack.DropN(3); err != nil {
		return err
	}
	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckDataSigVerify is a combination of opcodeCheckDataSig and
// opcodeVerify.
//
// Stack transformation: [... signature message pubkey] -> [... bool] -> [...]
func opcodeCheckDataSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckDataSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckDataSigVerify)
	}
	return err
}

// opcodeCheckMultiSig treats the top item on the stack as an integer number of
// public keys, followed by that many entries as raw data representing the public
// keys, followed by the integer number of signatures, followed by that many
// entries as raw data representing the signatures.
//
// An additional item is consumed below the signatures.  When Schnorr multisig
// is enabled and that item is not empty, it is a bitfield selecting which
// public keys are checked against the signatures, all of which must then be
// valid Schnorr signatures.  Otherwise the legacy algorithm is used: the
// signatures and public keys are walked in order, each public key consumed
// when it does not verify the current signature, so the signatures must be in
// the same order as their public keys.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 1); err != nil {
		return err
	}

	numKeys, err := vm.dstack.PeekInt(0)
	if err != nil {
		return err
	}
	numPubKeys := numKeys.Int64()
	if numPubKeys < 0 || numPubKeys > MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("number of pubkeys %v is out of range [0, %d]",
			numKeys, MaxPubKeysPerMultiSig)
		return scriptError(ErrPubKeyCount, str)
	}
	vm.numOps += int(numPubKeys)
	if vm.numOps > MaxOpsPerScript {
		str := fmt.Sprintf("exceeded max operation limit of %d",
			MaxOpsPerScript)
		return scriptError(ErrOpCount, str)
	}

	// Stack depths of the top public key and the signature count.
	idxTopKey := int32(2)
	idxSigCount := idxTopKey + int32(numPubKeys)
	if err := vm.requireDepth(op, int(idxSigCount)); err != nil {
		return err
	}

	sigCount, err := vm.dstack.PeekInt(idxSigCount - 1)
	if err != nil {
		return err
	}
	numSignatures := sigCount.Int64()
	if numSignatures < 0 || numSignatures > numPubKeys {
		str := fmt.Sprintf("number of signatures %v is out of range "+
			"[0, %d]", sigCount, numPubKeys)
		return scriptError(ErrSigCount, str)
	}

	// Stack depths of the top signature and the dummy element.
	idxTopSig := idxSigCount + 1
	idxDummy := idxTopSig + int32(numSignatures)
	if err := vm.requireDepth(op, int(idxDummy)); err != nil {
		return err
	}

	dummy, err := vm.dstack.PeekByteArray(idxDummy - 1)
	if err != nil {
		return err
	}

	var success bool
	if vm.hasFlag(ScriptEnableSchnorrMultisig) && len(dummy) != 0 {
		err = vm.checkSchnorrMultiSig(dummy, idxTopKey, idxTopSig,
			int(numPubKeys), int(numSignatures))
		success = err == nil
	} else {
		success, err = vm.checkLegacyMultiSig(dummy, idxTopKey,
			idxTopSig, int(numPubKeys), int(numSignatures))
	}
	if err != nil {
		return err
	}

	if err := vm.dstack.DropN(idxDummy); err != nil {
		return err
	}
	vm.dstack.PushBool(success)
	return nil
}

// checkSchnorrMultiSig verifies the signatures of a Schnorr mode
// OP_CHECKMULTISIG.  The bitfield selects the public keys, and every selected
// key must verify the signature paired with it.  Any failure is an error.
func (vm *Engine) checkSchnorrMultiSig(bitfield []byte, idxTopKey, idxTopSig int32,
	numPubKeys, numSignatures int) error {

	checkBits, err := decodeBitfield(bitfield, numPubKeys)
	if err != nil {
		return err
	}

	if bits.OnesCount32(checkBits) != numSignatures {
		str := fmt.Sprintf("bitfield selects %d keys for %d signatures",
			bits.OnesCount32(checkBits), numSignatures)
		return scriptError(ErrInvalidBitCount, str)
	}

	scriptCode := vm.subScript()
	idxBottomKey := idxTopKey + int32(numPubKeys) - 1
	idxBottomSig := idxTopSig + int32(numSignatures) - 1

	// Signatures are paired with the selected keys from the bottom up.
	iKey := 0
	for iSig := 0; iSig < numSignatures; iSig, iKey = iSig+1, iKey+1 {
		if checkBits>>uint(iKey) == 0 {
			return scriptError(ErrInvalidBitRange,
				"bitfield has no remaining keys")
		}

		// Find the next selected key.
		for (checkBits>>uint(iKey))&0x01 == 0 {
			iKey++
		}
		if iKey >= numPubKeys {
			return scriptError(ErrPubKeyCount,
				"bitfield selects a key past the last one")
		}

		sig, err := vm.dstack.PeekByteArray(idxBottomSig - 1 - int32(iSig))
		if err != nil {
			return err
		}
		pubKey, err := vm.dstack.PeekByteArray(idxBottomKey - 1 - int32(iKey))
		if err != nil {
			return err
		}

		// Only public keys paired with a signature are checked.
		if err := checkTransactionSchnorrSignatureEncoding(sig, vm.flags); err != nil {
			return err
		}
		if err := checkPubKeyEncoding(pubKey, vm.flags); err != nil {
			return err
		}

		valid, err := vm.checker.CheckSig(sig, pubKey, scriptCode, vm.flags)
		if err != nil {
			return err
		}
		if !valid {
			str := fmt.Sprintf("signature %d failed schnorr multisig "+
				"verification", iSig)
			return scriptError(ErrSigNullFail, str)
		}
		vm.metrics.SigChecks++
	}

	if checkBits>>uint(iKey) != 0 {
		return scriptError(ErrInvalidBitCount,
			"bitfield selects keys past the last signature")
	}
	return nil
}

// checkLegacyMultiSig runs the ordered ECDSA OP_CHECKMULTISIG algorithm and
// returns whether enough signatures verified.
func (vm *Engine) checkLegacyMultiSig(dummy []byte, idxTopKey, idxTopSig int32,
	numPubKeys, numSignatures int) (bool, error) {

	// The dummy element is an artifact of an off-by-one error in the
	// first client release.  Under the null dummy rules it must be
	// empty.
	if vm.hasFlag(ScriptVerifyNullDummy) && len(dummy) != 0 {
		str := fmt.Sprintf("multisig dummy argument has length %d "+
			"instead of 0", len(dummy))
		return false, scriptError(ErrSigNullDummy, str)
	}

	// Remove the signatures from the script code for scripts that do not
	// commit to the fork id.
	scriptCode := vm.subScript()
	for k := 0; k < numSignatures; k++ {
		sig, err := vm.dstack.PeekByteArray(idxTopSig - 1 + int32(k))
		if err != nil {
			return false, err
		}
		scriptCode = cleanupScriptCode(scriptCode, sig, vm.flags)
	}

	success := true
	sigsRemaining := numSignatures
	keysRemaining := numPubKeys
	for success && sigsRemaining > 0 {
		sigIdx := idxTopSig - 1 + int32(numSignatures-sigsRemaining)
		keyIdx := idxTopKey - 1 + int32(numPubKeys-keysRemaining)

		sig, err := vm.dstack.PeekByteArray(sigIdx)
		if err != nil {
			return false, err
		}
		pubKey, err := vm.dstack.PeekByteArray(keyIdx)
		if err != nil {
			return false, err
		}

		// The exact order of the signature and public key checks is
		// observable through the error returned under strict encoding.
		if err := checkTransactionECDSASignatureEncoding(sig, vm.flags); err != nil {
			return false, err
		}
		if err := checkPubKeyEncoding(pubKey, vm.flags); err != nil {
			return false, err
		}

		valid, err := vm.checker.CheckSig(sig, pubKey, scriptCode, vm.flags)
		if err != nil {
			return false, err
		}
		if valid {
			sigsRemaining--
		}
		keysRemaining--

		// Too many signatures have failed when more remain than
		// keys left to check them against.
		if sigsRemaining > keysRemaining {
			success = false
		}
	}

	allNull := true
	for k := 0; k < numSignatures; k++ {
		sig, err := vm.dstack.PeekByteArray(idxTopSig - 1 + int32(k))
		if err != nil {
			return false, err
		}
		if len(sig) != 0 {
			allNull = false
			break
		}
	}

	if !success && !allNull && vm.hasFlag(ScriptVerifyNullFail) {
		str := "not all signatures empty on failed checkmultisig"
		return false, scriptError(ErrSigNullFail, str)
	}

	// The number of keys is an upper bound of the signature verifications
	// that can be determined without doing them.
	if !allNull {
		vm.metrics.SigChecks += numPubKeys
	}
	return success, nil
}

// opcodeCheckMultiSigVerify is a combination of opcodeCheckMultiSig and
// opcodeVerify.  The opcodeCheckMultiSig is invoked followed by opcodeVerify.
// See the documentation for each of those opcodes for more details.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool] -> [...]
func opcodeCheckMultiSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckMultiSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckMultiSigVerify)
	}
	return err
}

// opcodeReverseBytes reverses the byte order of the top item on the data
// stack.
//
// Stack transformation: [... x1] -> [... reverse(x1)]
func opcodeReverseBytes(op *opcode, data []byte, vm *Engine) error {
	if err := vm.requireDepth(op, 1); err != nil {
		return err
	}

	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	reversed := make([]byte, len(so))
	for i, b := range so {
		reversed[len(so)-1-i] = b
	}
	vm.dstack.PushByteArray(reversed)
	return nil
}

// introspectionContext returns the execution context used by the
// introspection opcodes.  The opcodes are invalid until native introspection
// is enabled, and the token opcodes additionally require tokens.
func (vm *Engine) introspectionContext(op *opcode) (*ScriptExecutionContext, error) {
	if isTokenIntrospectionOpcode(op.value) && !vm.hasFlag(ScriptEnableTokens) {
		str := fmt.Sprintf("%s requires token introspection", op.name)
		return nil, scriptError(ErrBadOpcode, str)
	}
	if !vm.hasFlag(ScriptEnableNativeIntrospection) {
		str := fmt.Sprintf("%s requires native introspection", op.name)
		return nil, scriptError(ErrBadOpcode, str)
	}

	ctx := vm.checker.Context()
	if ctx == nil {
		str := fmt.Sprintf("%s requires a transaction context", op.name)
		return nil, scriptError(ErrContextNotPresent, str)
	}
	return ctx, nil
}

// isTokenIntrospectionOpcode returns whether the opcode inspects token data.
func isTokenIntrospectionOpcode(opcode byte) bool {
	return opcode >= OP_UTXOTOKENCATEGORY && opcode <= OP_OUTPUTTOKENAMOUNT
}

// popIntrospectionIndex pops the input or output index operand of a unary
// introspection opcode.
func popIntrospectionIndex(op *opcode, vm *Engine) (int64, error) {
	if err := vm.requireDepth(op, 1); err != nil {
		return 0, err
	}

	idx, err := vm.dstack.PopInt()
	if err != nil {
		return 0, err
	}
	return idx.Int64(), nil
}

// inputIndexOperand pops an input index and ensures it refers to an input of
// the transaction.  When needCoin is set, the coin spent by that input must
// also be available in the context.
func inputIndexOperand(op *opcode, vm *Engine, needCoin bool) (*ScriptExecutionContext, int, error) {
	ctx, err := vm.introspectionContext(op)
	if err != nil {
		return nil, 0, err
	}

	idx, err := popIntrospectionIndex(op, vm)
	if err != nil {
		return nil, 0, err
	}

	if idx < 0 || idx >= int64(len(ctx.Tx().TxIn)) {
		str := fmt.Sprintf("%s input index %d is out of range for %d "+
			"inputs", op.name, idx, len(ctx.Tx().TxIn))
		return nil, 0, scriptError(ErrInvalidTxInputIndex, str)
	}

	if needCoin && ctx.IsLimited() && int(idx) != ctx.InputIndex() {
		str := fmt.Sprintf("%s needs the coin of input %d which is not "+
			"available in a limited context", op.name, idx)
		return nil, 0, scriptError(ErrLimitedContextNoSiblingInfo, str)
	}
	return ctx, int(idx), nil
}

// outputIndexOperand pops an output index and ensures it refers to an output
// of the transaction.
func outputIndexOperand(op *opcode, vm *Engine) (*wire.TxOut, error) {
	ctx, err := vm.introspectionContext(op)
	if err != nil {
		return nil, err
	}

	idx, err := popIntrospectionIndex(op, vm)
	if err != nil {
		return nil, err
	}

	if idx < 0 || idx >= int64(len(ctx.Tx().TxOut)) {
		str := fmt.Sprintf("%s output index %d is out of range for %d "+
			"outputs", op.name, idx, len(ctx.Tx().TxOut))
		return nil, scriptError(ErrInvalidTxOutputIndex, str)
	}
	return ctx.Tx().TxOut[idx], nil
}

// pushElement pushes data that was not taken from the script onto the data
// stack, ensuring it does not exceed the maximum element size.
func (vm *Engine) pushElement(op *opcode, data []byte) error {
	if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("%s would push %d bytes which exceeds the "+
			"max allowed size %d", op.name, len(data),
			MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}
	vm.dstack.PushByteArray(data)
	return nil
}

// outputBytecode returns the locking script of an output as seen by the
// bytecode introspection opcodes.  Before tokens are enabled an output that
// carries a token payload is seen with the payload still wrapped in front of
// its locking script.
func (vm *Engine) outputBytecode(txOut *wire.TxOut) []byte {
	if txOut.TokenData != nil && !vm.hasFlag(ScriptEnableTokens) {
		wrapped, err := wire.WrapScriptPubKey(txOut.TokenData, txOut.PkScript)
		if err == nil {
			return wrapped
		}
	}
	return txOut.PkScript
}

// tokenCategory returns the category push for token data: the category id
// followed by the capability byte of mutable and minting NFTs.  Outputs
// without tokens push an empty item.
func tokenCategory(td *wire.TokenData) []byte {
	if td == nil {
		return nil
	}

	category := make([]byte, 0, chainhash.HashSize+1)
	category = append(category, td.Category[:]...)
	if td.IsMutableNFT() || td.IsMintingNFT() {
		category = append(category, byte(td.Capability()))
	}
	return category
}

// tokenCommitment returns the NFT commitment of token data, or an empty item
// when there is no NFT.
func tokenCommitment(td *wire.TokenData) []byte {
	if td == nil || !td.HasNFT() {
		return nil
	}
	return td.Commitment
}

// tokenAmount returns the fungible token amount of token data as a number.
func tokenAmount(td *wire.TokenData) ScriptNum {
	if td == nil {
		return NewScriptNum(0)
	}
	return NewScriptNum(td.Amount)
}

// opcodeInputIndex pushes the index of the input being evaluated.
//
// Stack transformation: [...] -> [... index]
func opcodeInputIndex(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext(op)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(NewScriptNum(int64(ctx.InputIndex())))
	return nil
}

// opcodeActiveBytecode pushes the script being evaluated starting after the
// most recently executed OP_CODESEPARATOR.
//
// Stack transformation: [...] -> [... bytecode]
func opcodeActiveBytecode(op *opcode, data []byte, vm *Engine) error {
	if _, err := vm.introspectionContext(op); err != nil {
		return err
	}
	return vm.pushElement(op, vm.subScript())
}

// opcodeTxVersion pushes the version of the transaction.
//
// Stack transformation: [...] -> [... version]
func opcodeTxVersion(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext(op)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(NewScriptNum(int64(ctx.Tx().Version)))
	return nil
}

// opcodeTxInputCount pushes the number of inputs of the transaction.
//
// Stack transformation: [...] -> [... count]
func opcodeTxInputCount(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext(op)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(NewScriptNum(int64(len(ctx.Tx().TxIn))))
	return nil
}

// opcodeTxOutputCount pushes the number of outputs of the transaction.
//
// Stack transformation: [...] -> [... count]
func opcodeTxOutputCount(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext(op)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(NewScriptNum(int64(len(ctx.Tx().TxOut))))
	return nil
}

// opcodeTxLockTime pushes the lock time of the transaction.
//
// Stack transformation: [...] -> [... locktime]
func opcodeTxLockTime(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext(op)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(NewScriptNum(int64(ctx.Tx().LockTime)))
	return nil
}

// opcodeUtxoValue pushes the value in satoshis of the coin spent by an input.
//
// Stack transformation: [... index] -> [... value]
func opcodeUtxoValue(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, true)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(NewScriptNum(ctx.CoinAmount(idx)))
	return nil
}

// opcodeUtxoBytecode pushes the locking script of the coin spent by an input.
//
// Stack transformation: [... index] -> [... bytecode]
func opcodeUtxoBytecode(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, true)
	if err != nil {
		return err
	}
	return vm.pushElement(op, vm.outputBytecode(ctx.Coin(idx)))
}

// opcodeOutpointTxHash pushes the hash of the transaction whose output is
// spent by an input.
//
// Stack transformation: [... index] -> [... txhash]
func opcodeOutpointTxHash(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, false)
	if err != nil {
		return err
	}

	hash := ctx.Tx().TxIn[idx].PreviousOutPoint.Hash
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeOutpointIndex pushes the output index spent by an input.
//
// Stack transformation: [... index] -> [... outpointindex]
func opcodeOutpointIndex(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, false)
	if err != nil {
		return err
	}

	outIdx := ctx.Tx().TxIn[idx].PreviousOutPoint.Index
	vm.dstack.PushInt(NewScriptNum(int64(outIdx)))
	return nil
}

// opcodeInputBytecode pushes the unlocking script of an input.
//
// Stack transformation: [... index] -> [... bytecode]
func opcodeInputBytecode(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, false)
	if err != nil {
		return err
	}
	return vm.pushElement(op, ctx.ScriptSig(idx))
}

// opcodeInputSequenceNumber pushes the sequence number of an input.
//
// Stack transformation: [... index] -> [... sequence]
func opcodeInputSequenceNumber(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, false)
	if err != nil {
		return err
	}

	sequence := ctx.Tx().TxIn[idx].Sequence
	vm.dstack.PushInt(NewScriptNum(int64(sequence)))
	return nil
}

// opcodeOutputValue pushes the value in satoshis of an output.
//
// Stack transformation: [... index] -> [... value]
func opcodeOutputValue(op *opcode, data []byte, vm *Engine) error {
	txOut, err := outputIndexOperand(op, vm)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(NewScriptNum(txOut.Value))
	return nil
}

// opcodeOutputBytecode pushes the locking script of an output.
//
// Stack transformation: [... index] -> [... bytecode]
func opcodeOutputBytecode(op *opcode, data []byte, vm *Engine) error {
	txOut, err := outputIndexOperand(op, vm)
	if err != nil {
		return err
	}
	return vm.pushElement(op, vm.outputBytecode(txOut))
}

// opcodeUtxoTokenCategory pushes the token category of the coin spent by an
// input.
//
// Stack transformation: [... index] -> [... category]
func opcodeUtxoTokenCategory(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, true)
	if err != nil {
		return err
	}
	return vm.pushElement(op, tokenCategory(ctx.CoinTokenData(idx)))
}

// opcodeUtxoTokenCommitment pushes the NFT commitment of the coin spent by an
// input.
//
// Stack transformation: [... index] -> [... commitment]
func opcodeUtxoTokenCommitment(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, true)
	if err != nil {
		return err
	}
	return vm.pushElement(op, tokenCommitment(ctx.CoinTokenData(idx)))
}

// opcodeUtxoTokenAmount pushes the fungible token amount of the coin spent by
// an input.
//
// Stack transformation: [... index] -> [... amount]
func opcodeUtxoTokenAmount(op *opcode, data []byte, vm *Engine) error {
	ctx, idx, err := inputIndexOperand(op, vm, true)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(tokenAmount(ctx.CoinTokenData(idx)))
	return nil
}

// opcodeOutputTokenCategory pushes the token category of an output.
//
// Stack transformation: [... index] -> [... category]
func opcodeOutputTokenCategory(op *opcode, data []byte, vm *Engine) error {
	txOut, err := outputIndexOperand(op, vm)
	if err != nil {
		return err
	}
	return vm.pushElement(op, tokenCategory(txOut.TokenData))
}

// opcodeOutputTokenCommitment pushes the NFT commitment of an output.
//
// Stack transformation: [... index] -> [... commitment]
func opcodeOutputTokenCommitment(op *opcode, data []byte, vm *Engine) error {
	txOut, err := outputIndexOperand(op, vm)
	if err != nil {
		return err
	}
	return vm.pushElement(op, tokenCommitment(txOut.TokenData))
}

// opcodeOutputTokenAmount pushes the fungible token amount of an output.
//
// Stack transformation: [... index] -> [... amount]
func opcodeOutputTokenAmount(op *opcode, data []byte, vm *Engine) error {
	txOut, err := outputIndexOperand(op, vm)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(tokenAmount(txOut.TokenData))
	return nil
}

// OpcodeByName is a map that can be used to lookup an opcode by its
// human-readable name (OP_CHECKMULTISIG, OP_CHECKSIG, etc).
var OpcodeByName = make(map[string]byte)

func init() {
	// Initialize the opcode name to value map using the contents of the
	// opcode array.  Also add entries for "OP_FALSE", "OP_TRUE", and
	// "OP_NOP2"/"OP_NOP3" since they are aliases.
	for _, op := range opcodeArray {
		OpcodeByName[op.name] = op.value
	}
	OpcodeByName["OP_FALSE"] = OP_FALSE
	OpcodeByName["OP_TRUE"] = OP_TRUE
	OpcodeByName["OP_NOP2"] = OP_CHECKLOCKTIMEVERIFY
	OpcodeByName["OP_NOP3"] = OP_CHECKSEQUENCEVERIFY
}
