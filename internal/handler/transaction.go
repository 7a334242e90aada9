package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gitKrishh/finance-tracker/internal/models"
	"github.com/gitKrishh/finance-tracker/internal/store"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves transaction CRUD for the authenticated user.
type TransactionHandler struct {
	Store *store.TransactionStore
}

func NewTransactionHandler(s *store.TransactionStore) *TransactionHandler {
	return &TransactionHandler{Store: s}
}

// ---------- wire format ----------

type createTransactionReq struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=income expense"`
	Category    string  `json:"category" binding:"required"`
	Date        string  `json:"date"`
	ReceiptURL  string  `json:"receiptUrl"`
}

type updateTransactionReq struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Type        *string  `json:"type"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
	ReceiptURL  *string  `json:"receiptUrl"`
}

type transactionResp struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	ReceiptURL  string    `json:"receiptUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:          t.ID,
		UserID:      t.UserID,
		Description: t.Description,
		Amount:      t.Amount(),
		Type:        t.Type,
		Category:    t.Category,
		Date:        t.Date,
		ReceiptURL:  t.ReceiptURL,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// parseDate accepts the formats the client actually sends.
func parseDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, util.BadRequest("Invalid transaction ID format")
	}
	return uint(id), nil
}

// ---------- handlers ----------

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest("Description, amount, type, and category are required"))
		return
	}

	in := store.CreateInput{
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    strings.TrimSpace(req.Category),
		ReceiptURL:  strings.TrimSpace(req.ReceiptURL),
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			util.Fail(c, util.BadRequest("Invalid date format"))
			return
		}
		in.Date = date
	}

	tx, err := h.Store.Create(user.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.JSON(c, http.StatusCreated, toTransactionResp(tx), "Transaction created successfully")
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	filter := store.ListFilter{Type: c.Query("type")}

	// period filter, e.g. ?period=30d
	if period := c.Query("period"); period != "" && strings.HasSuffix(period, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(period, "d")); err == nil && days > 0 {
			filter.PeriodDays = days
		}
	}

	txs, err := h.Store.ListForOwner(user.ID, filter)
	if err != nil {
		util.Fail(c, err)
		return
	}

	items := make([]transactionResp, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResp(&txs[i]))
	}
	util.JSON(c, http.StatusOK, items, "Transactions retrieved successfully")
}

func (h *TransactionHandler) GetByID(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	id, err := pathID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	tx, err := h.Store.GetByID(id, user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.JSON(c, http.StatusOK, toTransactionResp(tx), "Transaction retrieved successfully")
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	id, err := pathID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest("Invalid request body"))
		return
	}

	in := store.UpdateInput{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		ReceiptURL:  req.ReceiptURL,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			util.Fail(c, util.BadRequest("Invalid date format"))
			return
		}
		in.Date = &date
	}

	tx, err := h.Store.Update(id, user.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.JSON(c, http.StatusOK, toTransactionResp(tx), "Transaction updated successfully")
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	id, err := pathID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.Store.Delete(id, user.ID); err != nil {
		util.Fail(c, err)
		return
	}
	util.JSON(c, http.StatusOK, gin.H{"id": id}, "Transaction deleted successfully")
}
