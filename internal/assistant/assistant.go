package assistant

import (
	"context"
	"log"
	"time"

	"github.com/prompt-general/supportdesk/internal/classifier"
	"github.com/prompt-general/supportdesk/internal/events"
	"github.com/prompt-general/supportdesk/internal/memory"
	"github.com/prompt-general/supportdesk/internal/monitoring"
	"github.com/prompt-general/supportdesk/internal/router"
)

// SourceError labels replies produced by internal failure rather than a
// retrieval strategy.
const SourceError = "Error"

const internalErrorMessage = "Something went wrong on our end. Please try again later."

// Reply is the assistant's answer plus the label of the source it came from
type Reply struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Assistant is the conversational core: it classifies a question, routes it
// to the matching retrieval strategy and records the interaction. Answer is
// the only operation the surrounding application calls.
type Assistant struct {
	classifier *classifier.Classifier
	router     *router.Router
	monitor    *monitoring.Monitor
	events     *events.Publisher
}

// New wires the assistant from its collaborators. monitor and publisher may
// be nil when interaction recording is not wanted.
func New(c *classifier.Classifier, r *router.Router, monitor *monitoring.Monitor, publisher *events.Publisher) *Assistant {
	return &Assistant{
		classifier: c,
		router:     r,
		monitor:    monitor,
		events:     publisher,
	}
}

// Answer classifies the question, answers it via the routed strategy and
// returns the reply with its source label. It never fails: an unexpected
// internal error degrades to a fixed message with the Error source.
func (a *Assistant) Answer(ctx context.Context, sessionID, question string, history []memory.Turn, userID int) (reply Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[assistant] unexpected error answering question: %v", rec)
			reply = Reply{Message: internalErrorMessage, Source: SourceError}
		}
	}()

	category := a.classifier.Classify(ctx, question, history)
	log.Printf("[assistant] query classified as %s", category)

	answer, source := a.router.Route(ctx, category, question, history, userID)

	if a.monitor != nil {
		a.monitor.Record(question, answer, string(category), source, userID)
	}
	if a.events != nil {
		a.events.Publish(ctx, events.InteractionEvent{
			SessionID:   sessionID,
			UserID:      userID,
			UserMessage: question,
			QueryType:   string(category),
			DataSource:  source,
			Timestamp:   time.Now().UTC(),
		})
	}

	return Reply{Message: answer, Source: source}
}
