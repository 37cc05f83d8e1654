package models

// Setting keys persisted in the settings store.
const (
	SettingAutoReply        = "auto_reply"
	SettingRespondGroups    = "respond_groups"
	SettingAllowedGroups    = "allowed_groups"
	SettingBlockedContacts  = "blocked_contacts"
	SettingBlockWord        = "block_word"
	SettingAgentPrompt      = "agent_prompt"
	SettingGeminiModel      = "gemini_model"
	DefaultBlockWord        = "parar"
	DefaultAgentPrompt      = "Você é um assistente prestativo."
	DefaultAIResponsePrompt = "Responda à mensagem do usuário."
)

// Stat counters incremented by the bot.
const (
	StatTotalMessages   = "total_messages"
	StatMonthlyMessages = "monthly_messages"
	StatFlowRuns        = "flow_runs"
	StatAIReplies       = "ai_replies"
)

// Stats is a snapshot of the bot counters.
type Stats map[string]int64
