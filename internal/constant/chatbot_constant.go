package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	ChatGreeting = "Howdy! I'm your AI assistant. Ask me about registration, bus routes, or campus traditions!"

	// Sent verbatim as the Gemini systemInstruction for portal chat.
	ChatSystemInstruction = `You are Howdy Bot, a helpful, spirited AI assistant for Texas A&M University students.
You use Aggie terminology (Howdy, Gig 'em, Good Bull, Redass) naturally but not excessively.
You are knowledgeable about:
- Course registration (add/drop, waitlists)
- Campus resources (Evans Library, MSC, bus routes)
- Traditions (Midnight Yell, Silver Taps, Muster)
- Academic advice (keep it general).
Keep your answers concise and helpful for a web interface.`

	// Returned when every attempt against the AI endpoint failed.
	ConnectivityFallback = "Sorry, I'm having trouble connecting to the Aggie network. Please try again later."

	// Returned when the endpoint answered but carried no reply text.
	EmptyReplyFallback = "I'm having trouble thinking right now. Gig 'em anyway!"

	SmartBriefPromptTemplate = `Analyze this news headline and description for a Texas A&M student:
Headline: "%s"
Description: "%s"

Tell me "Why this matters" in 1-2 short sentences. Focus on the practical impact on a student's day-to-day life.`
)
