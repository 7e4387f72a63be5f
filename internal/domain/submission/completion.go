package submission

import (
	"github.com/google/uuid"

	"github.com/stagekit/greenroom-api/internal/domain/speaker"
)

// EvaluateStatus derives a speaker's completion status from the set of
// required requirement ids, the requirement ids covered by the speaker's
// currently-latest submissions, and whether any submission at all exists
// on the speaker's record. It is a pure function:
//
//   - no required slots -> complete (any or no submission qualifies)
//   - no submissions on record at all -> pending
//   - otherwise complete iff every required slot is covered by a latest
//     submission, else partial
//
// The hasAnySubmission input matters when a pair's latest version was
// deleted while older versions survive: the latest set is empty but the
// speaker still has history, so the status is partial, not pending.
func EvaluateStatus(requiredIDs []uuid.UUID, latestSubmittedIDs []uuid.UUID, hasAnySubmission bool) speaker.SubmissionStatus {
	if len(requiredIDs) == 0 {
		return speaker.StatusComplete
	}

	if !hasAnySubmission {
		return speaker.StatusPending
	}

	submitted := make(map[uuid.UUID]struct{}, len(latestSubmittedIDs))
	for _, id := range latestSubmittedIDs {
		submitted[id] = struct{}{}
	}

	for _, id := range requiredIDs {
		if _, ok := submitted[id]; !ok {
			return speaker.StatusPartial
		}
	}

	return speaker.StatusComplete
}
