package agent

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/docs"
	"github.com/etnz/dcf/renderer"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// Session is the valuation under discussion.
type Session struct {
	Input    dcf.Input
	Currency string
}

// Report renders the valuation of the session form, with some fields changed.
// The session itself is never modified.
func (s *Session) Report(changes map[string]any) (string, error) {
	in := s.Input
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := in.Set(name, argString(changes[name])); err != nil {
			return "", err
		}
	}
	v, err := in.Compute()
	if err != nil {
		return "", err
	}
	return renderer.RenderValuation(v, renderer.Options{Currency: s.Currency}), nil
}

// argString converts a function call argument to a form value.
func argString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			The user has computed a discounted cash flow valuation of a company and wants to
			discuss it: whether the assumptions are sound, what drives the fair value, and how
			sensitive the result is.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			Devise a plan of questions to ask to each expert and come up with the best response
			to the user's request. Answer in markdown. Never present a valuation as investment advice.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search, for recent facts
// about the company and its market.
func NewResearcher(model string) *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an equity researcher, aware of the companies, their markets and
		the latest news. Ask the Researcher whenever you need recent or grounding information,
		for instance to compare an assumption with the company's history or guidance.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an equity researcher. You search and find anything related to
			companies, their financial statements, markets and analysts consensus.
			You leverage Google Search to ground your assertions, and cite figures with their date.
				`}}},
		},
	}
}

// NewAnalyst returns the expert in charge of the valuation of the session.
func NewAnalyst(model string, s *Session) *Expert {
	lib := []Function{s.valuationFunc(), s.whatIfFunc(), documentationFunc()}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It owns the user's DCF valuation: the assumptions, the
		projection table, the fair value per share and the recommendation. It can recompute the
		valuation with different assumptions to measure their impact.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a financial analyst in charge of the user's discounted cash flow valuation.
				Use the available tools to read the valuation report, to recompute it with other
				assumptions, and to read the documentation of the method and of each assumption.
				Always base figures on the tools' output, never compute a valuation yourself.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func (s *Session) valuationFunc() *Func {
	const name = "Valuation"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Valuation returns the report of the user's valuation: the summary, the gauge and the year by year projection.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			report, err := s.Report(nil)
			return respond(id, name, report, err)
		},
	}
}

func (s *Session) whatIfFunc() *Func {
	const name = "WhatIf"
	fields := map[string]*genai.Schema{
		"company": {Type: genai.TypeString, Description: "company name"},
	}
	for _, field := range dcf.FieldNames() {
		fields[field] = &genai.Schema{Type: genai.TypeString}
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `WhatIf recomputes the user's valuation with some assumptions changed, and returns the new report.
			The user's valuation is not modified. Rates are in percent: "12" means 12%.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"changes": {
						Type:        genai.TypeObject,
						Description: "The assumptions to change, by form field name, for instance {\"wacc\": \"9\", \"g15\": \"12\"}.",
						Properties:  fields,
					},
				},
				Required: []string{"changes"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report, or an error when the assumptions cannot be valued.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			changes, ok := args["changes"].(map[string]any)
			if !ok {
				return respond(id, name, "", fmt.Errorf("argument 'changes' is not an object as expected but %T", args["changes"]))
			}
			report, err := s.Report(changes)
			return respond(id, name, report, err)
		},
	}
}

func documentationFunc() *Func {
	const name = "Documentation"
	topics, _ := docs.GetAllTopics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Documentation returns a topic of the user manual, for instance how each assumption is used by the valuation.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Enum: topics},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The topic, in markdown.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, ok := args["topic"].(string)
			if !ok {
				return respond(id, name, "", fmt.Errorf("argument 'topic' is not a string as expected but %T", args["topic"]))
			}
			doc, err := docs.GetTopic(topic)
			return respond(id, name, doc, err)
		},
	}
}
