package llm

import "fmt"

// AssistantSystemPrompt frames every free-form question sent to a provider
const AssistantSystemPrompt = `You are AURA, an AI assistant for a Dubai real estate professional.

Your role is to:
- Answer questions about the agent's properties, contacts, deals and tasks
- Give specific, actionable advice grounded in the data provided
- Suggest what information the user should provide when the data is missing

Response Style:
- Concise but comprehensive
- Professional tone suitable for a real estate expert
- Prices in AED`

// AssistantPrompt combines the database summary, knowledge base excerpts and
// the user's question.
func AssistantPrompt(databaseContext, knowledgeContext, query string) string {
	return fmt.Sprintf(`You have access to the following data context:

DATABASE CONTEXT:
%s

KNOWLEDGE BASE CONTEXT:
%s

User Query: %s

Please provide a helpful, accurate, and professional response. Use the context provided to give specific, actionable advice. If you need specific data that isn't in the context, suggest what the user should provide or how they can get that information.`,
		databaseContext, knowledgeContext, query)
}

// FollowUpEmailPrompt asks for a personalised follow-up email. The reply is
// expected to start with a "Subject:" line.
func FollowUpEmailPrompt(contactSummary, interaction string) string {
	return fmt.Sprintf(`Write a personalized follow-up email based on the following information:

Contact Information:
%s

Context: %s

Write a professional, warm, and personalized email that:
1. References our previous interaction
2. Provides value (market insights, property suggestions, etc.)
3. Has a clear call-to-action
4. Is concise (under 200 words)

Format as:
Subject: [subject line]

[email body]`, contactSummary, interaction)
}
