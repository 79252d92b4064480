package agent

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/core"
	"github.com/Caerfyrddin29/PhishDetector/internal/reporting"
)

type handler struct {
	scans      *core.ScanService
	history    *core.HistoryTracker
	reputation *core.Reputation
	analyzer   core.Analyzer
	extractor  core.ContentExtractor
	forwarder  *reporting.Forwarder
	logger     *zap.Logger
}

func newHandler(
	scans *core.ScanService,
	history *core.HistoryTracker,
	reputation *core.Reputation,
	analyzer core.Analyzer,
	extractor core.ContentExtractor,
	forwarder *reporting.Forwarder,
	logger *zap.Logger,
) *handler {
	return &handler{
		scans:      scans,
		history:    history,
		reputation: reputation,
		analyzer:   analyzer,
		extractor:  extractor,
		forwarder:  forwarder,
		logger:     logger,
	}
}

type scanRequest struct {
	Body   string      `json:"body"`
	Sender string      `json:"sender"`
	Links  []core.Link `json:"links"`
	// Raw carries a full RFC 5322 message; when set it is run through
	// the content extractor instead of the pre-extracted fields above.
	Raw []byte `json:"raw,omitempty"`
}

type failureResponse struct {
	Error   bool     `json:"error"`
	Reasons []string `json:"reasons"`
}

type senderRequest struct {
	Sender string `json:"sender" validate:"required,email"`
	// Raw optionally carries the offending message for abuse forwarding
	Raw []byte `json:"raw,omitempty"`
}

// blockDomainRequest takes either a sender address to extract the
// domain from, or a bare domain name
type blockDomainRequest struct {
	Sender string `json:"sender" validate:"required_without=Domain"`
	Domain string `json:"domain" validate:"required_without=Sender"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func failure(c echo.Context, status int, reasons ...string) error {
	return c.JSON(status, failureResponse{Error: true, Reasons: reasons})
}

func (h *handler) scan(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}

	var scan *core.ScanRequest
	if len(req.Raw) > 0 {
		extracted, err := h.extractor.Extract(req.Raw)
		if err != nil {
			return failure(c, http.StatusBadRequest, err.Error())
		}
		scan = extracted
	} else {
		if req.Body == "" {
			return failure(c, http.StatusBadRequest, "No email content found")
		}
		scan = core.NewScanRequest(req.Body, req.Sender, req.Links, 0)
	}

	result, err := h.scans.Scan(c.Request().Context(), scan)
	if err != nil {
		var scanErr *core.ScanFailure
		if errors.As(err, &scanErr) {
			return failure(c, failureStatus(scanErr), scanErr.Reasons...)
		}
		return failure(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// failureStatus maps scan failure reasons onto HTTP statuses while
// keeping the {error, reasons} payload shape in every case
func failureStatus(f *core.ScanFailure) int {
	if len(f.Reasons) == 0 {
		return http.StatusBadGateway
	}
	switch f.Reasons[0] {
	case core.ReasonTimeout:
		return http.StatusGatewayTimeout
	case core.ReasonScanInFlight:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func (h *handler) stats(c echo.Context) error {
	stats, err := h.history.Stats(c.Request().Context())
	if err != nil {
		return failure(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *handler) lists(c echo.Context) error {
	trusted, reported, blockedDomains, err := h.reputation.Lists(c.Request().Context())
	if err != nil {
		return failure(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string][]string{
		"trusted":         trusted,
		"reported":        reported,
		"blocked_domains": blockedDomains,
	})
}

func (h *handler) trust(c echo.Context) error {
	var req senderRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return failure(c, http.StatusBadRequest, "A valid sender address is required")
	}
	if err := h.reputation.Trust(c.Request().Context(), req.Sender); err != nil {
		return failure(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Sender added to trusted list"})
}

func (h *handler) report(c echo.Context) error {
	var req senderRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return failure(c, http.StatusBadRequest, "A valid sender address is required")
	}
	if err := h.reputation.Report(c.Request().Context(), req.Sender); err != nil {
		return failure(c, http.StatusInternalServerError, err.Error())
	}

	// Forwarding failure is surfaced but does not undo the report
	if len(req.Raw) > 0 && h.forwarder.Enabled() {
		if err := h.forwarder.Forward(req.Sender, req.Raw); err != nil {
			h.logger.Error("Abuse forwarding failed", zap.Error(err))
			return c.JSON(http.StatusOK, messageResponse{Message: "Sender reported; abuse forwarding failed"})
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "Sender reported and forwarded to abuse mailbox"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Sender reported"})
}

func (h *handler) blockDomain(c echo.Context) error {
	var req blockDomainRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return failure(c, http.StatusBadRequest, "A sender address or domain is required")
	}

	var (
		domain string
		added  bool
		err    error
	)
	if req.Domain != "" {
		domain, added, err = h.reputation.BlockDomainName(c.Request().Context(), req.Domain)
	} else {
		domain, added, err = h.reputation.BlockDomain(c.Request().Context(), req.Sender)
	}
	if err != nil {
		if errors.Is(err, core.ErrNoDomain) {
			return failure(c, http.StatusBadRequest, "Could not extract domain from email address")
		}
		return failure(c, http.StatusInternalServerError, err.Error())
	}
	if !added {
		return c.JSON(http.StatusOK, messageResponse{Message: "Domain " + domain + " is already blocked"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Domain " + domain + " blocked; future emails will be flagged automatically"})
}

type settingsResponse struct {
	AutoSpamEnabled bool   `json:"autoSpamEnabled"`
	Theme           string `json:"theme"`
}

type settingsRequest struct {
	AutoSpamEnabled *bool   `json:"autoSpamEnabled"`
	Theme           *string `json:"theme" validate:"omitempty,oneof=light dark"`
}

func (h *handler) getSettings(c echo.Context) error {
	ctx := c.Request().Context()
	autoSpam, err := h.scans.AutoSpamEnabled(ctx)
	if err != nil {
		return failure(c, http.StatusInternalServerError, err.Error())
	}
	theme, err := h.scans.Theme(ctx)
	if err != nil {
		return failure(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, settingsResponse{AutoSpamEnabled: autoSpam, Theme: theme})
}

func (h *handler) putSettings(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Theme must be light or dark")
	}

	ctx := c.Request().Context()
	if req.AutoSpamEnabled != nil {
		if err := h.scans.SetAutoSpam(ctx, *req.AutoSpamEnabled); err != nil {
			return failure(c, http.StatusInternalServerError, err.Error())
		}
	}
	if req.Theme != nil {
		if err := h.scans.SetTheme(ctx, *req.Theme); err != nil {
			return failure(c, http.StatusInternalServerError, err.Error())
		}
	}
	return h.getSettings(c)
}

type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

func (h *handler) health(c echo.Context) error {
	backend := "reachable"
	if err := h.analyzer.Ping(c.Request().Context()); err != nil {
		backend = "offline"
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Backend: backend})
}
