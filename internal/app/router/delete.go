package router

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/PabloGalante/reflection-bot/internal/domain"
	"github.com/PabloGalante/reflection-bot/internal/observability"
)

// Callback payloads look like "delete:<set instance id>:<index|cancel>". The
// instance id ties every button to the candidate set it was rendered from,
// so a click on a message from an earlier /delete can never match a fresh
// set by coincidence of index.
const callbackPrefix = "delete"

const buttonsPerRow = 3

// startDeleteFlow builds a fresh DeleteCandidateSet from the first page of
// stored thoughts and presents it with numbered buttons. Issuing /delete
// again always rebuilds the set, invalidating previously shown indices. With
// nothing to delete the user stays in (or reverts to) normal mode.
func (r *Router) startDeleteFlow(ctx context.Context, sess *domain.UserSession) {
	log := observability.LoggerFromContext(ctx)

	thoughts, err := r.store.List(ctx, domain.CollectionThoughts, 1, listPageSize)
	if err != nil {
		log.Error("failed to load delete candidates", "error", err)
		r.sendText(ctx, sess.UserID, "Sorry, I couldn't load your thoughts. Please try again.")
		return
	}
	if len(thoughts) == 0 {
		sess.Mode = domain.ModeNormal
		sess.PendingDelete = nil
		r.sendText(ctx, sess.UserID, "You don't have any stored thoughts yet.")
		return
	}

	set := &domain.DeleteCandidateSet{
		InstanceID: uuid.NewString(),
		Candidates: make([]domain.DeleteCandidate, len(thoughts)),
	}

	var b strings.Builder
	b.WriteString("Select a thought to delete:\n\n")
	for i, t := range thoughts {
		set.Candidates[i] = domain.DeleteCandidate{
			ThoughtID:  t.ID,
			Preview:    t.Preview(),
			Categories: t.Categories,
		}

		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(".")
		if names := t.CategoryNames(); len(names) > 0 {
			b.WriteString(" [" + strings.Join(names, ", ") + "]")
		}
		b.WriteString(" " + t.Preview() + "\n\n")
	}

	var rows [][]domain.Button
	var row []domain.Button
	for i := 1; i <= len(thoughts); i++ {
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, domain.Button{
			Label: strconv.Itoa(i),
			Data:  callbackPrefix + ":" + set.InstanceID + ":" + strconv.Itoa(i),
		})
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []domain.Button{{
		Label: "Cancel",
		Data:  callbackPrefix + ":" + set.InstanceID + ":cancel",
	}})

	if _, err := r.transport.SendButtons(ctx, sess.UserID, b.String(), rows); err != nil {
		log.Error("failed to send delete selection", "error", err)
		sess.Mode = domain.ModeNormal
		sess.PendingDelete = nil
		return
	}

	sess.Mode = domain.ModeDelete
	sess.PendingDelete = set
	log.Info("delete flow started", "candidates", len(set.Candidates), "set_id", set.InstanceID)
}

// handleCallback resolves a delete selection. Every exit path leaves the
// user in normal mode with the candidate set discarded; stale or malformed
// selections report a specific failure instead of erroring out.
func (r *Router) handleCallback(ctx context.Context, sess *domain.UserSession, ev Event) {
	log := observability.LoggerFromContext(ctx).With("callback_data", ev.CallbackData)

	parts := strings.SplitN(ev.CallbackData, ":", 3)
	if len(parts) != 3 || parts[0] != callbackPrefix {
		log.Error("malformed callback payload")
		r.finishDelete(ctx, sess, ev, "An error occurred while processing your selection.")
		return
	}
	setID, selection := parts[1], parts[2]

	if sess.PendingDelete == nil || sess.PendingDelete.InstanceID != setID {
		log.Info("selection for stale delete set rejected")
		r.finishDelete(ctx, sess, ev, "This thought is no longer available.")
		return
	}

	if selection == "cancel" {
		log.Info("delete flow canceled")
		r.finishDelete(ctx, sess, ev, "Deletion canceled. You're back in normal mode.")
		return
	}

	index, err := strconv.Atoi(selection)
	if err != nil {
		log.Error("non-numeric delete selection")
		r.finishDelete(ctx, sess, ev, "An error occurred while processing your selection.")
		return
	}

	candidate, ok := sess.PendingDelete.Lookup(index)
	if !ok {
		log.Info("delete selection out of range", "index", index)
		r.finishDelete(ctx, sess, ev, "This thought is no longer available.")
		return
	}

	deleted, err := r.store.Delete(ctx, domain.CollectionThoughts, candidate.ThoughtID)
	switch {
	case err != nil:
		log.Error("failed to delete thought", "thought_id", candidate.ThoughtID, "error", err)
		r.finishDelete(ctx, sess, ev, "❌ Failed to delete the thought. Please try again.")
	case !deleted:
		log.Info("thought already gone", "thought_id", candidate.ThoughtID)
		r.finishDelete(ctx, sess, ev, "❌ Failed to delete the thought. Please try again.")
	default:
		log.Info("thought deleted", "thought_id", candidate.ThoughtID)
		r.finishDelete(ctx, sess, ev, "✅ Thought deleted successfully.")
	}
}

// finishDelete resets the user to normal mode, discards the candidate set,
// and finalizes the selection message in place.
func (r *Router) finishDelete(ctx context.Context, sess *domain.UserSession, ev Event, text string) {
	sess.Mode = domain.ModeNormal
	sess.PendingDelete = nil

	if err := r.transport.EditText(ctx, ev.Callback, text); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to edit selection message", "error", err)
	}
}
