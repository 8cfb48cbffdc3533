package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract: its ABI and creation bytecode
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// artifactFile covers the Hardhat layout ("bytecode": "0x…") and the
// Foundry layout ("bytecode": {"object": "0x…"}).
type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// LoadArtifact reads a compiled artifact from path
func LoadArtifact(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("read artifact: %w", err)
	}
	return ParseArtifact(data)
}

// ParseArtifact decodes an artifact JSON document
func ParseArtifact(data []byte) (Artifact, error) {
	var f artifactFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Artifact{}, fmt.Errorf("parse artifact: %w", err)
	}
	if len(f.ABI) == 0 {
		return Artifact{}, fmt.Errorf("artifact has no abi")
	}

	parsed, err := abi.JSON(bytes.NewReader(f.ABI))
	if err != nil {
		return Artifact{}, fmt.Errorf("parse abi: %w", err)
	}

	code, err := decodeBytecode(f.Bytecode)
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{Name: f.ContractName, ABI: parsed, Bytecode: code}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("artifact has no bytecode")
	}

	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("unrecognised bytecode field")
		}
		hex = obj.Object
	}

	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "0x") {
		hex = "0x" + hex
	}
	if hex == "0x" {
		return nil, fmt.Errorf("artifact bytecode is empty (abstract contract or interface?)")
	}
	code, err := hexutil.Decode(hex)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode: %w", err)
	}
	return code, nil
}
