package submission

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	"github.com/stagekit/greenroom-api/internal/domain/requirement"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
)

// mockLedgerRepo keeps the ledger in memory with the same semantics the
// postgres repository provides: append-only versions, one latest per
// pair, speaker status re-derived on every write.
type mockLedgerRepo struct {
	subs     map[uuid.UUID]*Submission
	speakers *mockSpeakerRepo
}

func newMockLedgerRepo(speakers *mockSpeakerRepo) *mockLedgerRepo {
	return &mockLedgerRepo{
		subs:     make(map[uuid.UUID]*Submission),
		speakers: speakers,
	}
}

func (m *mockLedgerRepo) pairVersions(speakerID, requirementID uuid.UUID) []*Submission {
	var pair []*Submission
	for _, sub := range m.subs {
		if sub.SpeakerID == speakerID && sub.AssetRequirementID == requirementID {
			pair = append(pair, sub)
		}
	}
	sort.Slice(pair, func(i, j int) bool { return pair[i].Version < pair[j].Version })
	return pair
}

func (m *mockLedgerRepo) CreateVersion(sub *Submission, requiredIDs []uuid.UUID) error {
	pair := m.pairVersions(sub.SpeakerID, sub.AssetRequirementID)

	nextVersion := 1
	for _, existing := range pair {
		if existing.Version >= nextVersion {
			nextVersion = existing.Version + 1
		}
		if existing.IsLatest {
			existing.IsLatest = false
			id := existing.ID
			sub.ReplacesSubmissionID = &id
		}
	}

	sub.Version = nextVersion
	sub.IsLatest = true
	m.subs[sub.ID] = sub

	return m.reevaluate(sub.SpeakerID, requiredIDs)
}

func (m *mockLedgerRepo) GetByID(id string) (*Submission, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFound("submission", id)
	}
	if sub, ok := m.subs[parsed]; ok {
		return sub, nil
	}
	return nil, apperrors.NewNotFound("submission", id)
}

func (m *mockLedgerRepo) DeleteAndReevaluate(id string, requiredIDs []uuid.UUID) error {
	sub, err := m.GetByID(id)
	if err != nil {
		return err
	}
	delete(m.subs, sub.ID)
	return m.reevaluate(sub.SpeakerID, requiredIDs)
}

func (m *mockLedgerRepo) GetVersionHistory(speakerID, requirementID string) ([]*Submission, error) {
	spk, err := uuid.Parse(speakerID)
	if err != nil {
		return nil, apperrors.NewNotFound("speaker", speakerID)
	}
	req, err := uuid.Parse(requirementID)
	if err != nil {
		return nil, apperrors.NewNotFound("asset requirement", requirementID)
	}
	return m.pairVersions(spk, req), nil
}

func (m *mockLedgerRepo) ListLatestBySpeaker(speakerID string) ([]*Submission, error) {
	spk, err := uuid.Parse(speakerID)
	if err != nil {
		return nil, apperrors.NewNotFound("speaker", speakerID)
	}
	var latest []*Submission
	for _, sub := range m.subs {
		if sub.SpeakerID == spk && sub.IsLatest {
			latest = append(latest, sub)
		}
	}
	return latest, nil
}

func (m *mockLedgerRepo) reevaluate(speakerID uuid.UUID, requiredIDs []uuid.UUID) error {
	spk, ok := m.speakers.speakers[speakerID]
	if !ok {
		return apperrors.NewNotFound("speaker", speakerID.String())
	}

	hasAny := false
	var latestIDs []uuid.UUID
	for _, sub := range m.subs {
		if sub.SpeakerID != speakerID {
			continue
		}
		hasAny = true
		if sub.IsLatest {
			latestIDs = append(latestIDs, sub.AssetRequirementID)
		}
	}

	status := EvaluateStatus(requiredIDs, latestIDs, hasAny)
	if status == speaker.StatusComplete && spk.SubmissionStatus != speaker.StatusComplete {
		now := time.Now()
		spk.SubmittedAt = &now
	}
	spk.SubmissionStatus = status
	return nil
}

// mockRequirementRepo is a map-backed requirement catalog
type mockRequirementRepo struct {
	requirements map[uuid.UUID]*requirement.AssetRequirement
}

func newMockRequirementRepo() *mockRequirementRepo {
	return &mockRequirementRepo{requirements: make(map[uuid.UUID]*requirement.AssetRequirement)}
}

func (m *mockRequirementRepo) add(req *requirement.AssetRequirement) {
	m.requirements[req.ID] = req
}

func (m *mockRequirementRepo) GetByID(id string) (*requirement.AssetRequirement, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFound("asset requirement", id)
	}
	if req, ok := m.requirements[parsed]; ok {
		return req, nil
	}
	return nil, apperrors.NewNotFound("asset requirement", id)
}

func (m *mockRequirementRepo) ListByEvent(eventID string) ([]*requirement.AssetRequirement, error) {
	parsed, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperrors.NewNotFound("event", eventID)
	}
	var result []*requirement.AssetRequirement
	for _, req := range m.requirements {
		if req.EventID == parsed {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockRequirementRepo) ListRequiredIDs(eventID string) ([]uuid.UUID, error) {
	reqs, err := m.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, req := range reqs {
		if req.IsRequired {
			ids = append(ids, req.ID)
		}
	}
	return ids, nil
}

// mockSpeakerRepo is a map-backed speaker store
type mockSpeakerRepo struct {
	speakers map[uuid.UUID]*speaker.Speaker
}

func newMockSpeakerRepo() *mockSpeakerRepo {
	return &mockSpeakerRepo{speakers: make(map[uuid.UUID]*speaker.Speaker)}
}

func (m *mockSpeakerRepo) add(spk *speaker.Speaker) {
	m.speakers[spk.ID] = spk
}

func (m *mockSpeakerRepo) GetByID(id string) (*speaker.Speaker, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFound("speaker", id)
	}
	if spk, ok := m.speakers[parsed]; ok {
		return spk, nil
	}
	return nil, apperrors.NewNotFound("speaker", id)
}
