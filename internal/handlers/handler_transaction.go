package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	maxUploadBytes     int64
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, maxUploadBytes int64) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		maxUploadBytes:     maxUploadBytes,
	}
}

// registerTransactionRoutes registers the transaction endpoints on rg.
func registerTransactionRoutes(rg gin.IRoutes, ts portssvc.TransactionSvcFacade, maxUploadBytes int64) {
	h := newTransactionHandler(ts, maxUploadBytes)

	rg.GET("/get_data", h.listTransactions)
	rg.POST("/add_transaction", h.addTransaction)
	rg.DELETE("/delete_transaction", h.deleteTransaction)
	rg.POST("/upload", h.uploadTransactions)
}

// listTransactions godoc
// @Summary List all transactions
// @Description Returns every stored transaction in insertion order
// @Tags transactions
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /get_data [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txns, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// addTransaction godoc
// @Summary Add a transaction
// @Description Appends a single transaction. The client may supply its own UUID.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.StatusResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "ID already exists"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /add_transaction [post]
func (h *transactionHandler) addTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.ActorFromContext(c)
	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to add transaction")
		return
	}

	logger.Info("Transaction added", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.StatusResponse{Status: "created", ID: txn.TransactionID})
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes a transaction by id, or by its 0-based index in /get_data order
// @Tags transactions
// @Produce json
// @Param id query string false "Transaction ID"
// @Param index query int false "Position in /get_data order"
// @Success 200 {object} dto.StatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /delete_transaction [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor := middleware.ActorFromContext(c)

	var err error
	if id := c.Query("id"); id != "" {
		err = h.transactionService.DeleteTransaction(c.Request.Context(), id, actor)
	} else if raw, ok := c.GetQuery("index"); ok {
		index, convErr := strconv.Atoi(raw)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
			return
		}
		err = h.transactionService.DeleteTransactionAt(c.Request.Context(), index, actor)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id or index query parameter is required"})
		return
	}

	if err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "deleted"})
}

// uploadTransactions godoc
// @Summary Import transactions from CSV
// @Description Parses an uploaded CSV file and appends every row. Returns the imported rows.
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /upload [post]
func (h *transactionHandler) uploadTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		logger.Warn("No file in upload request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file received"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, logger, err, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	txns, err := h.transactionService.ImportTransactions(c.Request.Context(), fileHeader.Filename, file, middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Error processing file")
		return
	}

	logger.Info("CSV imported", slog.String("filename", fileHeader.Filename), slog.Int("row_count", len(txns)))
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}
