// Package prompts builds the system prompt for a chat request.
package prompts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

const defaultBotName = "better-chatbot"

// UserContext is what the base prompt knows about the caller.
type UserContext struct {
	Name        string
	Email       string
	Preferences *models.UserPreferences
	Agent       *models.Agent
	Now         time.Time
}

// BuildUserSystemPrompt is the base prompt: assistant identity, user
// details and response style, plus the mentioned agent's instructions.
func BuildUserSystemPrompt(u UserContext) string {
	botName := defaultBotName
	var prefs models.UserPreferences
	if u.Preferences != nil {
		prefs = *u.Preferences
		if prefs.BotName != "" {
			botName = prefs.BotName
		}
	}

	var b strings.Builder
	if u.Agent != nil {
		fmt.Fprintf(&b, "You are %s", u.Agent.Name)
		if u.Agent.Instructions.Role != "" {
			fmt.Fprintf(&b, ". You are an expert in %s", u.Agent.Instructions.Role)
		}
		b.WriteString(".\n")
	} else {
		fmt.Fprintf(&b, "You are %s, an intelligent AI assistant that helps users with questions and tasks, using tools when they are available.\n", botName)
	}

	b.WriteString("\n<user_information>\n")
	fmt.Fprintf(&b, "- **System time**: %s\n", u.Now.Format("Monday, January 2, 2006 at 3:04:05 PM MST"))
	displayName := prefs.DisplayName
	if displayName == "" {
		displayName = u.Name
	}
	if displayName != "" {
		fmt.Fprintf(&b, "- **User Name**: %s\n", displayName)
	}
	if u.Email != "" {
		fmt.Fprintf(&b, "- **User Email**: %s\n", u.Email)
	}
	if prefs.Profession != "" {
		fmt.Fprintf(&b, "- **User Profession**: %s\n", prefs.Profession)
	}
	b.WriteString("</user_information>\n")

	if u.Agent != nil && strings.TrimSpace(u.Agent.Instructions.SystemPrompt) != "" {
		b.WriteString("\n<core_capabilities>\n")
		b.WriteString(strings.TrimSpace(u.Agent.Instructions.SystemPrompt))
		b.WriteString("\n</core_capabilities>\n")
	}

	if prefs.ResponseStyleExample != "" {
		b.WriteString("\n<response_style>\n")
		b.WriteString("- Match the tone and style of this example:\n\"\"\"\n")
		b.WriteString(prefs.ResponseStyleExample)
		b.WriteString("\n\"\"\"\n</response_style>\n")
	} else {
		b.WriteString("\n<response_style>\n")
		b.WriteString("- Use markdown formatting where it helps readability.\n")
		b.WriteString("- Prefer the table and chart tools over hand-written markdown tables when they are available.\n")
		b.WriteString("</response_style>")
	}

	return strings.TrimSpace(b.String())
}

// ServerCustomization is one MCP server's per-user prompt together with the
// per-tool prompts for that server.
type ServerCustomization struct {
	ServerName string
	Prompt     string
	Tools      map[string]string
}

// BuildMcpServerCustomizationsSystemPrompt renders per-server and per-tool
// guidance, or "" when there is none.
func BuildMcpServerCustomizationsSystemPrompt(customizations []ServerCustomization) string {
	var sections []string
	for _, c := range customizations {
		if strings.TrimSpace(c.Prompt) == "" && len(c.Tools) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "<%s>\n", c.ServerName)
		if p := strings.TrimSpace(c.Prompt); p != "" {
			fmt.Fprintf(&b, "<server_guideline>\n%s\n</server_guideline>\n", p)
		}
		toolNames := make([]string, 0, len(c.Tools))
		for name := range c.Tools {
			toolNames = append(toolNames, name)
		}
		sort.Strings(toolNames)
		for _, name := range toolNames {
			fmt.Fprintf(&b, "<%s>\n%s\n</%s>\n", name, strings.TrimSpace(c.Tools[name]), name)
		}
		fmt.Fprintf(&b, "</%s>", c.ServerName)
		sections = append(sections, b.String())
	}
	if len(sections) == 0 {
		return ""
	}

	return "### Tool Usage Guidelines\n" +
		"- When using tools, follow the guidelines below unless the user asks otherwise.\n" +
		"- Each section is named after the server the tools belong to.\n\n" +
		strings.Join(sections, "\n\n")
}

// ToolCallUnsupportedModelSystemPrompt is appended for models that cannot
// call tools.
const ToolCallUnsupportedModelSystemPrompt = "### Tool Call Limitation\n" +
	"- You are running on a model that does not support tool calls.\n" +
	"- When the user asks for something that needs a tool, explain that the current model cannot use tools and suggest switching to a model that can."

// MergeSystemPrompt joins the non-empty prompts with blank lines.
func MergeSystemPrompt(prompts ...string) string {
	var parts []string
	for _, p := range prompts {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}
