package render

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/render"
	"github.com/futig/genie-client/internal/session"
)

// MaxMessageLength is the Telegram limit on visible characters per message
const MaxMessageLength = 4096

// Message templates
const (
	MsgWelcome = `👋 Hi, I'm Genie.

Ask me anything about the documents in the knowledge base. Send a PDF, Excel or CSV file to add it.

📚 Documents loaded: %d
⏱ Response timeout: %s

Type /help to see all commands.`

	MsgHelp = `🤖 Commands:

/start - Start or reload the session
/help - Show this help
/clear - Clear the conversation
/docs - List documents and delete them
/timeout [seconds] - Show or change the response timeout
/export [md|pdf|docx] - Download the conversation
/reset - Rebuild the knowledge base index

Send any text to ask a question. Send a file to upload it.`

	MsgHistoryCleared   = `🧹 Conversation cleared.`
	MsgNoDocuments      = `📭 No documents yet. Send a PDF, Excel or CSV file to add one.`
	MsgDocumentsHeader  = `📚 Documents (%d). Tap one to delete it:`
	MsgDocumentsMore    = `…and %d more not shown.`
	MsgTimeoutCurrent   = "⏱ Response timeout: %s\n%s\n\nPick a preset or send /timeout <seconds> (0-120)."
	MsgTimeoutSet       = "⏱ Response timeout set to %s.\n%s"
	MsgExportChoose     = `💾 Pick a format:`
	MsgNothingToExport  = `📭 Nothing to export yet.`
	MsgResetConfirm     = `Rebuild the knowledge base index from the stored documents?`
	MsgResetDone        = `✅ Knowledge base index rebuilt.`
	MsgBusy             = `⏳ Still working on your previous request. Please wait.`
	MsgUploading        = `📤 Uploading %s…`
	MsgUnsupportedFile  = `❌ Unsupported file type. Please upload PDF, Excel, or CSV files.`
	MsgFileTooLarge     = `❌ The file is too large. The limit is %d MB.`
	MsgUnsupportedInput = `🤔 I can only read text messages and documents.`
	MsgConfirmExpired   = `⌛ No answer received. Nothing was changed.`
	MsgConfirmAnswered  = "%s\n\n%s"
	MsgEmptyReply       = `🤷 The assistant returned an empty answer.`
	MsgDocumentsChanged = `The document list has changed. Send /docs again.`

	// Errors
	ErrGeneric          = `❌ Something went wrong. Please try again or send /start.`
	ErrUnknownCommand   = `❌ Unknown command. Send /help to see what I can do.`
	ErrClearFailed      = `❌ Could not clear the conversation. Please try again later.`
	ErrListFailed       = `❌ Could not load the document list. Please try again later.`
	ErrDownloadFailed   = `❌ Could not download the file from Telegram. Please send it again.`
	ErrInvalidTimeout   = `❌ Send a number of seconds between 0 and 120, e.g. /timeout 45.`
	ErrUnsupportedFmt   = `❌ Unknown format. Use md, pdf or docx.`
	ErrExportFailed     = `❌ Could not build the export. Please try again.`
	ErrNetworkIssue     = `❌ Connection problem. Please try again a bit later.`
	ErrTimeout          = `❌ The operation took too long. Please try again.`
	ErrInvalidCallback  = `❌ Invalid data`
	ErrRateLimitFirst   = `⚠️ Too many requests. Please wait a moment.`
	ErrRateLimitSecond  = `⚠️ Rate limit exceeded. Wait about 30 seconds before trying again.`
	ErrRateLimitRepeat  = `🛑 You are sending requests too often. Please wait a minute.`
	AnswerYes           = `✅ Yes`
	AnswerNo            = `❌ No`
	CallbackProcessing  = `⏳ Working on it...`
)

// RenderWelcome formats the greeting for a freshly loaded session
func RenderWelcome(documentCount, timeout int) string {
	return fmt.Sprintf(MsgWelcome, documentCount, session.TimeoutLabel(timeout))
}

// RenderTimeout describes the current response timeout
func RenderTimeout(seconds int) string {
	return fmt.Sprintf(MsgTimeoutCurrent, session.TimeoutLabel(seconds), session.TimeoutDescription(seconds))
}

// RenderTimeoutSet confirms a new response timeout
func RenderTimeoutSet(seconds int) string {
	return fmt.Sprintf(MsgTimeoutSet, session.TimeoutLabel(seconds), session.TimeoutDescription(seconds))
}

// RenderDocuments formats the document list header
func RenderDocuments(docs []entity.DocumentRef, shown int) string {
	if len(docs) == 0 {
		return MsgNoDocuments
	}

	text := fmt.Sprintf(MsgDocumentsHeader, len(docs))
	if hidden := len(docs) - shown; hidden > 0 {
		text += "\n" + fmt.Sprintf(MsgDocumentsMore, hidden)
	}
	return text
}

// RenderFileTooLarge formats the size limit error
func RenderFileTooLarge(maxBytes int64) string {
	return fmt.Sprintf(MsgFileTooLarge, maxBytes/(1024*1024))
}

// RenderReply turns an assistant message into Telegram HTML messages. Plain
// text is escaped, code becomes <pre><code class="language-x">. Each message
// stays under MaxMessageLength visible characters; long segments are split.
func RenderReply(content string) []string {
	var (
		messages []string
		current  strings.Builder
		length   int
	)

	flush := func() {
		if current.Len() > 0 {
			messages = append(messages, current.String())
			current.Reset()
			length = 0
		}
	}

	for _, seg := range render.Segments(content) {
		for _, piece := range splitRunes(seg.Text, MaxMessageLength) {
			if strings.TrimSpace(piece) == "" {
				continue
			}

			n := utf8.RuneCountInString(piece)
			if length+n > MaxMessageLength {
				flush()
			}

			current.WriteString(renderSegment(seg.Kind, seg.Lang, piece))
			length += n
		}
	}
	flush()

	if len(messages) == 0 {
		return []string{MsgEmptyReply}
	}
	return messages
}

func renderSegment(kind render.Kind, lang, text string) string {
	escaped := html.EscapeString(text)

	if kind == render.KindText {
		return escaped
	}
	if lang == "" {
		return "<pre>" + escaped + "</pre>"
	}
	return fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre>`, html.EscapeString(lang), escaped)
}

// splitRunes cuts s into pieces of at most limit runes, preferring line breaks
func splitRunes(s string, limit int) []string {
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}

	var pieces []string
	runes := []rune(s)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		pieces = append(pieces, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}

	return pieces
}
