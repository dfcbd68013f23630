package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/services"
)

// AccountHandler handles wallet and deployment-history requests
type AccountHandler struct {
	accounts *services.AccountStore
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *services.AccountStore) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// SetAccountRequest reports a connected wallet
type SetAccountRequest struct {
	Address     string  `json:"address" binding:"required"`
	Avatar      *string `json:"avatar"`
	NetworkName *string `json:"networkName"`
	ChainID     *int64  `json:"chainId"`
}

// SetNetworkRequest reports the wallet's chain
type SetNetworkRequest struct {
	NetworkName string `json:"networkName" binding:"required"`
	ChainID     int64  `json:"chainId" binding:"required"`
}

// GetAccount returns the connected wallet
func (h *AccountHandler) GetAccount(c *gin.Context) {
	c.JSON(http.StatusOK, h.accounts.Account())
}

// SetAccount records a connected wallet
func (h *AccountHandler) SetAccount(c *gin.Context) {
	var req SetAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.accounts.SetAccount(req.Address, req.Avatar, req.NetworkName, req.ChainID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.accounts.Account())
}

// SetNetwork records the wallet's chain
func (h *AccountHandler) SetNetwork(c *gin.Context) {
	var req SetNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.accounts.SetNetwork(req.NetworkName, req.ChainID)
	c.JSON(http.StatusOK, h.accounts.Account())
}

// ClearAccount forgets the connected wallet
func (h *AccountHandler) ClearAccount(c *gin.Context) {
	h.accounts.ClearAccount()
	c.JSON(http.StatusOK, h.accounts.Account())
}

// ListDeployments returns the deployment history
func (h *AccountHandler) ListDeployments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"deployments": h.accounts.DeployedContracts()})
}

// DeleteDeployment drops a receipt from the history
func (h *AccountHandler) DeleteDeployment(c *gin.Context) {
	if !h.accounts.RemoveDeployedContract(c.Param("id")) {
		notFound(c, "deployment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deployment removed"})
}
