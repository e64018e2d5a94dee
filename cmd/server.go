package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// apiError is the body of every failed API call.
type apiError struct {
	status  int
	Message string   `json:"error"`
	Kind    string   `json:"kind"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

// Kinds of API errors.
const (
	kindFormat         = "format"
	kindMissingInput   = "missing_input"
	kindDiscountRate   = "invalid_discount_rate"
	kindNotFound       = "not_found"
	kindInternal       = "internal"
	kindUnknownRequest = "request"
)

// server answers the valuation API. Every request computes its own valuation.
type server struct {
	presets  dcf.Presets
	currency string
}

// NewServer returns the HTTP application serving valuations.
func NewServer(presets dcf.Presets, currency string) *fiber.App {
	s := &server{presets: presets, currency: currency}

	app := fiber.New(fiber.Config{
		AppName:               "dcf",
		StrictRouting:         true,
		CaseSensitive:         true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}\n",
		Output: os.Stderr,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/presets", s.getPresets)
	api.Post("/valuation", s.postValuation)
	api.Post("/report", s.postReport)
	api.Post("/charts/:name", s.postChart)
	return app
}

// errorHandler writes errors as an apiError.
func errorHandler(c *fiber.Ctx, err error) error {
	var ae *apiError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
	case errors.As(err, &fe):
		ae = &apiError{status: fe.Code, Message: fe.Message, Kind: kindUnknownRequest}
		if fe.Code == fiber.StatusNotFound {
			ae.Kind = kindNotFound
		}
	default:
		ae = &apiError{status: fiber.StatusInternalServerError, Message: err.Error(), Kind: kindInternal}
	}
	return c.Status(ae.status).JSON(ae)
}

// getPresets handles GET /api/presets
func (s *server) getPresets(c *fiber.Ctx) error {
	return c.JSON(s.presets)
}

// postValuation handles POST /api/valuation
func (s *server) postValuation(c *fiber.Ctx) error {
	v, err := s.compute(c)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

// postReport handles POST /api/report
func (s *server) postReport(c *fiber.Ctx) error {
	v, err := s.compute(c)
	if err != nil {
		return err
	}
	opts := renderer.Options{Currency: c.Query("currency", s.currency), SkipTable: c.Query("notable") == "true"}
	switch format := c.Query("format", "md"); format {
	case "md", "markdown":
		c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return c.SendString(renderer.RenderValuation(v, opts))
	case "html":
		var b bytes.Buffer
		if err := renderer.WriteHTML(&b, v, opts); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(b.Bytes())
	default:
		return &apiError{status: fiber.StatusBadRequest, Message: fmt.Sprintf("unknown report format %q, expected md or html", format), Kind: kindFormat}
	}
}

// postChart handles POST /api/charts/:name
func (s *server) postChart(c *fiber.Ctx) error {
	name := c.Params("name")
	format := c.Query("format", "svg")
	if format != "svg" && format != "png" {
		return &apiError{status: fiber.StatusBadRequest, Message: fmt.Sprintf("unknown image format %q, expected svg or png", format), Kind: kindFormat}
	}
	v, err := s.compute(c)
	if err != nil {
		return err
	}

	var draw func(io.Writer) error
	if name == "gauge" {
		g := renderer.NewGauge(v.FairValuePerShare, v.Assumptions.MarketPrice)
		draw = func(w io.Writer) error { return renderer.WriteGaugeSVG(w, g, renderer.GaugeWidth, renderer.GaugeHeight) }
		if format == "png" {
			draw = func(w io.Writer) error { return renderer.WriteGaugePNG(w, g, renderer.GaugeWidth, renderer.GaugeHeight) }
		}
	} else {
		series, err := renderer.Chart(v, name)
		if err != nil {
			return &apiError{status: fiber.StatusNotFound, Message: err.Error(), Kind: kindNotFound}
		}
		draw = func(w io.Writer) error {
			return renderer.WriteLineChartSVG(w, series, renderer.ChartWidth, renderer.ChartHeight)
		}
		if format == "png" {
			draw = func(w io.Writer) error {
				return renderer.WriteLineChartPNG(w, series, renderer.ChartWidth, renderer.ChartHeight)
			}
		}
	}

	var b bytes.Buffer
	if err := draw(&b); err != nil {
		return err
	}
	if format == "png" {
		c.Set(fiber.HeaderContentType, "image/png")
	} else {
		c.Set(fiber.HeaderContentType, "image/svg+xml")
	}
	return c.Send(b.Bytes())
}

// compute values the form sent in the request body, on top of the preset
// named by the "preset" query parameter, if any.
func (s *server) compute(c *fiber.Ctx) (*dcf.Valuation, error) {
	in, err := s.form(c)
	if err != nil {
		return nil, err
	}
	v, err := in.Compute()
	if err != nil {
		return nil, validationError(err)
	}
	return v, nil
}

func (s *server) form(c *fiber.Ctx) (dcf.Input, error) {
	var in dcf.Input
	if name := c.Query("preset"); name != "" {
		p, err := s.presets.Get(name)
		if err != nil {
			return in, &apiError{status: fiber.StatusNotFound, Message: err.Error(), Kind: kindNotFound}
		}
		in = p
	}

	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return in, nil
	}
	format := dcf.FormatJSON
	switch ct := c.Get(fiber.HeaderContentType); {
	case strings.Contains(ct, "hjson"):
		format = dcf.FormatHJSON
	case strings.Contains(ct, "yaml"):
		format = dcf.FormatYAML
	}
	sent, err := dcf.DecodeInput(bytes.NewReader(body), format)
	if err != nil {
		return in, &apiError{status: fiber.StatusBadRequest, Message: err.Error(), Kind: kindFormat}
	}
	return in.Merge(sent), nil
}

// validationError converts engine errors into API errors.
func validationError(err error) error {
	var missing *dcf.MissingInputError
	var rate *dcf.InvalidDiscountRateError
	switch {
	case errors.As(err, &missing):
		return &apiError{status: fiber.StatusUnprocessableEntity, Message: err.Error(), Kind: kindMissingInput, Fields: missing.Fields}
	case errors.As(err, &rate):
		return &apiError{status: fiber.StatusUnprocessableEntity, Message: err.Error(), Kind: kindDiscountRate, Fields: []string{"discountRate", "terminalGrowth"}}
	default:
		return err
	}
}
