package services

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/config"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/rs/zerolog"
)

// DeployPlan is everything the external wallet needs to send a deployment
type DeployPlan struct {
	ProjectID    string          `json:"projectId"`
	FileName     string          `json:"fileName"`
	ContractName string          `json:"contractName"`
	From         string          `json:"from"`
	NetworkName  string          `json:"networkName"`
	ChainID      int64           `json:"chainId"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// DeployService prepares deployments for the wallet and records confirmed
// receipts. It never signs or submits transactions itself.
type DeployService struct {
	files    *FileStore
	accounts *AccountStore
	terminal *TerminalStore
	network  config.NetworkConfig
	log      zerolog.Logger
}

// NewDeployService creates a new deploy service
func NewDeployService(files *FileStore, accounts *AccountStore, terminal *TerminalStore, network *config.NetworkConfig, log zerolog.Logger) *DeployService {
	return &DeployService{
		files:    files,
		accounts: accounts,
		terminal: terminal,
		network:  *network,
		log:      log.With().Str("component", "deploy").Logger(),
	}
}

// Prepare checks the wallet and returns the compiled contract to deploy
func (s *DeployService) Prepare(projectID, fileName, contractName string) (*DeployPlan, error) {
	account := s.accounts.Account()
	if !account.IsConnected || account.Address == nil {
		s.terminal.AddLog("Please connect your wallet first", models.LogError)
		return nil, apperr.New(apperr.CodePrecondition, "Please connect your wallet first")
	}
	if account.ChainID == nil || *account.ChainID != s.network.ChainID {
		msg := fmt.Sprintf("Please switch to %s (Chain ID: %d) to deploy contracts", s.network.Name, s.network.ChainID)
		s.terminal.AddLog(msg, models.LogWarning)
		return nil, apperr.New(apperr.CodePrecondition, "%s", msg)
	}

	contract := s.files.CompiledContract(projectID, fileName, contractName)
	if contract == nil {
		return nil, apperr.New(apperr.CodeNotFound, "contract %s in %s has not been compiled", contractName, fileName)
	}

	bytecode := contract.Bytecode
	if !strings.HasPrefix(bytecode, "0x") {
		bytecode = "0x" + bytecode
	}

	s.terminal.AddLog(fmt.Sprintf("Deploying %s to %s...", contractName, s.network.Name), models.LogInfo)

	return &DeployPlan{
		ProjectID:    projectID,
		FileName:     fileName,
		ContractName: contractName,
		From:         *account.Address,
		NetworkName:  s.network.Name,
		ChainID:      s.network.ChainID,
		ABI:          contract.ABI,
		Bytecode:     bytecode,
	}, nil
}

// Record stores the receipt of a confirmed deployment
func (s *DeployService) Record(projectID, fileName, contractName, address, txHash string) (*models.DeployedContract, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	if !isTxHash(txHash) {
		return nil, apperr.New(apperr.CodeInvalidArgument, "invalid transaction hash %q", txHash)
	}

	contract := s.files.CompiledContract(projectID, fileName, contractName)
	if contract == nil {
		return nil, apperr.New(apperr.CodeNotFound, "contract %s in %s has not been compiled", contractName, fileName)
	}

	functions, err := FunctionSignatures(contract.ABI)
	if err != nil {
		return nil, err
	}
	checksummed, _ := ChecksumAddress(address)

	deployed := models.DeployedContract{
		ID:              "contract_" + uuid.New().String(),
		Address:         checksummed,
		TransactionHash: txHash,
		NetworkName:     s.network.Name,
		ChainID:         s.network.ChainID,
		Timestamp:       models.NowMillis(),
		ABI:             contract.ABI,
		Functions:       functions,
	}
	s.accounts.AddDeployedContract(deployed)

	s.terminal.AddLog("Contract deployed successfully! Contract Address: "+checksummed, models.LogSuccess)
	s.terminal.AddLog("Transaction: "+txHash, models.LogInfo)
	s.log.Info().
		Str("project_id", projectID).
		Str("contract", contractName).
		Str("address", checksummed).
		Msg("deployment recorded")

	return &deployed, nil
}

func isTxHash(s string) bool {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
