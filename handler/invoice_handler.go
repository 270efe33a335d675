package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlachapelle/ocr-invoice-extraction/dto"
	"github.com/mlachapelle/ocr-invoice-extraction/service"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	maxFileSize    int64
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, maxFileSize int64) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		maxFileSize:    maxFileSize,
	}
}

// ParseDocument handles POST /invoice/parse: a multipart upload of one PDF
// or image, with optional parser_type and password form fields.
func (h *InvoiceHandler) ParseDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "A file upload is required", err)
		return
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.sendError(c, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the size limit", nil)
		return
	}

	parserType := dto.ParserType(c.PostForm("parser_type"))
	switch parserType {
	case "", dto.ParserTypeStatement, dto.ParserTypeInvoice:
	default:
		h.sendError(c, http.StatusBadRequest, "parser_type must be \"statement\" or \"invoice\"", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
		return
	}

	log.Printf("Parsing document %s (%d bytes)", fileHeader.Filename, len(data))

	invoice, err := h.invoiceService.ParseDocument(c.Request.Context(), fileHeader, data, c.PostForm("password"), parserType)
	if err != nil {
		h.sendError(c, http.StatusUnprocessableEntity, "Failed to extract text from document", err)
		return
	}

	c.JSON(http.StatusOK, dto.ParseResponse{
		Invoice:     invoice,
		ProcessedAt: service.ProcessedTimestamp(),
	})
}

// ParseText handles POST /invoice/parse-text: pre-extracted text straight
// into the extraction core.
func (h *InvoiceHandler) ParseText(c *gin.Context) {
	var request dto.ParseTextRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	invoice := h.invoiceService.ParseText(request.Text, request.ParserType)

	c.JSON(http.StatusOK, dto.ParseResponse{
		Invoice:     invoice,
		ProcessedAt: service.ProcessedTimestamp(),
	})
}

// sendError sends a structured error response
func (h *InvoiceHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "PARSE_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
