package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/config"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTxHash = "0x8f1e5d4c3b2a19081726354453627181920a1b2c3d4e5f60718293a4b5c6d7e8"

func newTestDeploy(t *testing.T) (*DeployService, *AccountStore) {
	t.Helper()
	files := NewFileStore(newFakeBackend(), nil, nil, zerolog.Nop())
	files.SaveCompiledContract("p1", models.CompiledContract{
		FileName:     "contracts/MyToken.sol",
		ContractName: "MyToken",
		ABI:          json.RawMessage(erc20ABI),
		Bytecode:     "6080",
	})
	accounts := NewAccountStore(nil, nil, zerolog.Nop())
	terminal := NewTerminalStore(nil, nil, zerolog.Nop())
	network := &config.NetworkConfig{Name: "Sepolia", ChainID: 11155111}
	return NewDeployService(files, accounts, terminal, network, zerolog.Nop()), accounts
}

func TestDeployService_Prepare(t *testing.T) {
	svc, accounts := newTestDeploy(t)

	_, err := svc.Prepare("p1", "contracts/MyToken.sol", "MyToken")
	assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "connect your wallet")

	mainnet := int64(1)
	require.NoError(t, accounts.SetAccount(testWallet, nil, nil, &mainnet))
	_, err = svc.Prepare("p1", "contracts/MyToken.sol", "MyToken")
	assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "Sepolia (Chain ID: 11155111)")

	accounts.SetNetwork("Sepolia", 11155111)
	plan, err := svc.Prepare("p1", "contracts/MyToken.sol", "MyToken")
	require.NoError(t, err)
	assert.Equal(t, "0x6080", plan.Bytecode)
	assert.Equal(t, testWallet, plan.From)
	assert.Equal(t, int64(11155111), plan.ChainID)

	_, err = svc.Prepare("p1", "contracts/MyToken.sol", "Missing")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeployService_Record(t *testing.T) {
	svc, accounts := newTestDeploy(t)

	deployed, err := svc.Record("p1", "contracts/MyToken.sol", "MyToken", strings.ToLower(testWallet), testTxHash)
	require.NoError(t, err)

	assert.Equal(t, testWallet, deployed.Address)
	assert.True(t, strings.HasPrefix(deployed.ID, "contract_"))
	assert.Contains(t, deployed.Functions, "transfer(address,uint256) 0xa9059cbb")
	assert.Equal(t, []models.DeployedContract{*deployed}, accounts.DeployedContracts())
}

func TestDeployService_RecordValidation(t *testing.T) {
	svc, accounts := newTestDeploy(t)

	tests := []struct {
		name     string
		contract string
		address  string
		txHash   string
		want     apperr.Code
	}{
		{"bad address", "MyToken", "0xabc", testTxHash, apperr.CodeInvalidArgument},
		{"bad hash", "MyToken", testWallet, "0x1234", apperr.CodeInvalidArgument},
		{"not compiled", "Other", testWallet, testTxHash, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record("p1", "contracts/MyToken.sol", tt.contract, tt.address, tt.txHash)
			assert.Equal(t, tt.want, apperr.CodeOf(err))
		})
	}
	assert.Empty(t, accounts.DeployedContracts())
}
