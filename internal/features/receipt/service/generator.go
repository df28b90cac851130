package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"payments-chat-backend/internal/common/cache"
	"payments-chat-backend/internal/features/transfer/models"
	"payments-chat-backend/internal/platform/paymentsapi"
)

const contentTypePDF = "application/pdf"

type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*paymentsapi.User, error)
}

// Generator renders transfer receipts as single-page PDFs.
type Generator struct {
	users    UserLookup
	cache    *cache.CacheService
	cacheTTL time.Duration
	location *time.Location
	compress bool
	logger   zerolog.Logger
}

type Option func(*Generator)

// WithUserCache caches recipient lookups for ttl.
func WithUserCache(c *cache.CacheService, ttl time.Duration) Option {
	return func(g *Generator) {
		g.cache = c
		g.cacheTTL = ttl
	}
}

// WithLocation sets the time zone receipt dates are printed in.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) { g.location = loc }
}

func NewGenerator(users UserLookup, logger zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		users:    users,
		location: time.Local,
		compress: true,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Generate(ctx context.Context, receipt models.Receipt) (*models.ReceiptDocument, error) {
	method := string(receipt.Method)
	if method == "" {
		method = "Não especificado"
	}

	lines := []string{
		"COMPROVANTE DE TRANSFERÊNCIA",
		"Valor: " + FormatBRL(receipt.Amount),
		"Destinatário: " + g.recipientLabel(ctx, receipt),
		"Data: " + formatDate(receipt.IssuedAt, g.location),
		"Método: " + method,
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetTitle("Comprovante de transferência", true)
	pdf.SetCreationDate(receipt.IssuedAt)
	pdf.SetModificationDate(receipt.IssuedAt)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	pdf.SetFillColor(17, 24, 39)
	pdf.Rect(0, 0, pageWidth, 90, "F")
	pdf.SetTextColor(255, 255, 255)

	pdf.SetY(20)
	for i, line := range lines {
		size := 14.0
		if i == 0 {
			size = 22
		}
		pdf.SetFont("Helvetica", "B", size)
		pdf.CellFormat(0, 12, tr(line), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	return &models.ReceiptDocument{
		Filename:    filename(receipt.IssuedAt, g.location),
		ContentType: contentTypePDF,
		Data:        buf.Bytes(),
	}, nil
}

// recipientLabel prints "handle (ID: n)" when the recipient can be looked
// up and the bare label otherwise.
func (g *Generator) recipientLabel(ctx context.Context, receipt models.Receipt) string {
	fallback := receipt.Recipient
	if fallback == "" {
		fallback = strconv.FormatInt(receipt.RecipientID, 10)
	}
	if receipt.RecipientID <= 0 || g.users == nil {
		return fallback
	}

	var user paymentsapi.User
	fetch := func() (interface{}, error) {
		u, err := g.users.GetUser(ctx, receipt.RecipientID)
		if err != nil {
			return nil, err
		}
		return u, nil
	}

	var err error
	if g.cache != nil {
		err = g.cache.GetOrSet(ctx, cache.UserKey(receipt.RecipientID), &user, g.cacheTTL, fetch)
	} else {
		var u interface{}
		if u, err = fetch(); err == nil {
			user = *u.(*paymentsapi.User)
		}
	}
	if err != nil {
		g.logger.Warn().Err(err).Int64("recipient_id", receipt.RecipientID).Msg("recipient lookup failed")
		return fallback
	}
	if user.Handle == "" {
		return fallback
	}

	id := user.ID
	if id == 0 {
		id = receipt.RecipientID
	}
	return fmt.Sprintf("%s (ID: %d)", user.Handle, id)
}
