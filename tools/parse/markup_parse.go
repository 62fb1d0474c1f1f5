package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/remodern-labs/remodern/tool"
)

// MarkupParseTool parses an HTML document and reports its structure: title,
// element counts, links, and referenced scripts.
type MarkupParseTool struct{}

// NewMarkupParseTool creates the HTML analysis tool.
func NewMarkupParseTool() MarkupParseTool {
	return MarkupParseTool{}
}

func (MarkupParseTool) Name() string { return "markup-parse" }

func (MarkupParseTool) Description() string {
	return "Parse an HTML document and report its structure"
}

func (MarkupParseTool) InputSchema() tool.Schema {
	return tool.NewObjectSchema().
		WithProperty("source", tool.Property{
			Type:        "string",
			Description: "Path to an HTML file",
		}).
		WithProperty("content", tool.Property{
			Type:        "string",
			Description: "Inline HTML content, used when source is not set",
		})
}

func (t MarkupParseTool) ValidateArgs(args map[string]any) error {
	if err := t.InputSchema().Validate(t.Name(), args); err != nil {
		return err
	}
	if tool.StringArg(args, "source", "") == "" && tool.StringArg(args, "content", "") == "" {
		return tool.Errorf(t.Name(), tool.CodeInvalidArgs, "one of source or content must be set")
	}
	return nil
}

// markupReport is the document summary serialized into the result.
type markupReport struct {
	Title    string         `json:"title,omitempty"`
	Elements map[string]int `json:"elements"`
	Links    []string       `json:"links,omitempty"`
	Scripts  []string       `json:"scripts,omitempty"`
	Forms    []string       `json:"forms,omitempty"`
	Images   []string       `json:"images,omitempty"`
}

func (t MarkupParseTool) Execute(_ context.Context, args map[string]any) (tool.Result, error) {
	content := tool.StringArg(args, "content", "")
	source := tool.StringArg(args, "source", "")
	if source != "" {
		raw, err := os.ReadFile(source)
		if err != nil {
			return tool.Failure(fmt.Sprintf("read markup file: %v", err)), nil
		}
		content = string(raw)
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return tool.Failure(fmt.Sprintf("parse markup: %v", err)), nil
	}

	report := markupReport{Elements: map[string]int{}}
	walkMarkup(doc, &report)

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return tool.Result{}, tool.WrapError(t.Name(), tool.CodeExecutionFailed, "encode report", err)
	}
	meta := map[string]any{
		"elementCount": len(report.Elements),
		"linkCount":    len(report.Links),
	}
	if source != "" {
		meta["source"] = source
	}
	return tool.SuccessWithMetadata(string(encoded), meta), nil
}

func walkMarkup(n *html.Node, report *markupReport) {
	if n.Type == html.ElementNode {
		report.Elements[n.Data]++
		switch n.Data {
		case "title":
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				report.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "a":
			if href := attrValue(n, "href"); href != "" {
				report.Links = append(report.Links, href)
			}
		case "script":
			if src := attrValue(n, "src"); src != "" {
				report.Scripts = append(report.Scripts, src)
			}
		case "form":
			report.Forms = append(report.Forms, attrValue(n, "action"))
		case "img":
			if src := attrValue(n, "src"); src != "" {
				report.Images = append(report.Images, src)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkMarkup(c, report)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
