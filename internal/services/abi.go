package services

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/kovin-ide/kovin/internal/apperr"
	"golang.org/x/crypto/sha3"
)

type abiParam struct {
	Type       string     `json:"type"`
	Components []abiParam `json:"components,omitempty"`
}

type abiEntry struct {
	Type   string     `json:"type"`
	Name   string     `json:"name"`
	Inputs []abiParam `json:"inputs"`
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// FunctionSignatures lists the functions of a contract ABI as
// "name(type,...) 0xselector", in ABI order.
func FunctionSignatures(abi json.RawMessage) ([]string, error) {
	var entries []abiEntry
	if err := json.Unmarshal(abi, &entries); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, err, "invalid contract ABI")
	}

	functions := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type != "function" {
			continue
		}
		name := e.Name
		if name == "" {
			name = "unknown"
		}
		sig := name + "(" + canonicalTypes(e.Inputs) + ")"
		selector := keccak256([]byte(sig))[:4]
		functions = append(functions, sig+" 0x"+hex.EncodeToString(selector))
	}
	return functions, nil
}

func canonicalTypes(params []abiParam) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = canonicalType(p)
	}
	return strings.Join(types, ",")
}

// canonicalType expands tuples to "(a,b)" keeping array suffixes
func canonicalType(p abiParam) string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	return "(" + canonicalTypes(p.Components) + ")" + strings.TrimPrefix(p.Type, "tuple")
}

// ChecksumAddress returns the EIP-55 form of a hex address
func ChecksumAddress(address string) (string, error) {
	if !isHexAddress(address) {
		return "", apperr.New(apperr.CodeInvalidArgument, "invalid address %q", address)
	}

	lower := strings.ToLower(address[2:])
	hash := hex.EncodeToString(keccak256([]byte(lower)))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			out[i] = c - 32
		}
	}
	return "0x" + string(out), nil
}

// ValidateAddress accepts a 0x-prefixed 20-byte hex address. All-lower and
// all-upper addresses skip the checksum; mixed case must match EIP-55.
func ValidateAddress(address string) error {
	checksummed, err := ChecksumAddress(address)
	if err != nil {
		return err
	}

	body := address[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}
	if address != checksummed {
		return apperr.New(apperr.CodeInvalidArgument, "address %q fails checksum", address)
	}
	return nil
}

func isHexAddress(s string) bool {
	if len(s) != 42 || s[:2] != "0x" {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
