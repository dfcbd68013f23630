package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/services"
)

// ContractHandler handles compilation and deployment requests
type ContractHandler struct {
	compiler *services.CompilerService
	deployer *services.DeployService
	files    *services.FileStore
}

// NewContractHandler creates a new contract handler
func NewContractHandler(compiler *services.CompilerService, deployer *services.DeployService, files *services.FileStore) *ContractHandler {
	return &ContractHandler{compiler: compiler, deployer: deployer, files: files}
}

// CompileRequest selects the file to compile
type CompileRequest struct {
	FilePath string `json:"filePath"`
	Version  string `json:"version"`
}

// ContractRef identifies one compiled contract of a project
type ContractRef struct {
	FileName     string `json:"fileName" binding:"required"`
	ContractName string `json:"contractName" binding:"required"`
}

// RecordDeploymentRequest carries the receipt of a wallet deployment
type RecordDeploymentRequest struct {
	ContractRef
	Address         string `json:"address" binding:"required"`
	TransactionHash string `json:"transactionHash" binding:"required"`
}

// Compile compiles one project file
func (h *ContractHandler) Compile(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.compiler.Compile(c.Request.Context(), c.Param("id"), req.FilePath, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListContracts returns a project's compiled contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contracts": h.files.CompiledContracts(c.Param("id"))})
}

// PrepareDeploy returns what the wallet needs to deploy a contract
func (h *ContractHandler) PrepareDeploy(c *gin.Context) {
	var req ContractRef
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	plan, err := h.deployer.Prepare(c.Param("id"), req.FileName, req.ContractName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// RecordDeployment stores a confirmed deployment
func (h *ContractHandler) RecordDeployment(c *gin.Context) {
	var req RecordDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	deployed, err := h.deployer.Record(c.Param("id"), req.FileName, req.ContractName, req.Address, req.TransactionHash)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deployed)
}
