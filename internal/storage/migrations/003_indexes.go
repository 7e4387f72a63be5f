package migrations

import "gorm.io/gorm"

// migration003Up creates performance indexes plus the partial unique index
// that guarantees at most one latest submission per (speaker, requirement)
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_events_slug ON events(slug)",
		"CREATE INDEX IF NOT EXISTS idx_events_deadline ON events(materials_deadline)",
		"CREATE INDEX IF NOT EXISTS idx_events_auto_reminders ON events(auto_reminders)",

		"CREATE INDEX IF NOT EXISTS idx_speakers_event ON speakers(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_speakers_email ON speakers(email)",
		"CREATE INDEX IF NOT EXISTS idx_speakers_status ON speakers(submission_status)",
		"CREATE INDEX IF NOT EXISTS idx_speakers_event_status ON speakers(event_id, submission_status)",

		"CREATE INDEX IF NOT EXISTS idx_asset_requirements_event ON asset_requirements(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_asset_requirements_required ON asset_requirements(event_id, is_required)",

		"CREATE INDEX IF NOT EXISTS idx_submissions_speaker ON submissions(speaker_id)",
		"CREATE INDEX IF NOT EXISTS idx_submissions_requirement ON submissions(asset_requirement_id)",
		"CREATE INDEX IF NOT EXISTS idx_submissions_pair ON submissions(speaker_id, asset_requirement_id)",
		"CREATE INDEX IF NOT EXISTS idx_submissions_uploaded_at ON submissions(uploaded_at DESC)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_one_latest ON submissions(speaker_id, asset_requirement_id) WHERE is_latest",

		"CREATE INDEX IF NOT EXISTS idx_reminders_speaker ON reminders(speaker_id)",
		"CREATE INDEX IF NOT EXISTS idx_reminders_event ON reminders(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_reminders_status ON reminders(status)",
		"CREATE INDEX IF NOT EXISTS idx_reminders_created_at ON reminders(created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops performance indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_events_slug",
		"idx_events_deadline",
		"idx_events_auto_reminders",
		"idx_speakers_event",
		"idx_speakers_email",
		"idx_speakers_status",
		"idx_speakers_event_status",
		"idx_asset_requirements_event",
		"idx_asset_requirements_required",
		"idx_submissions_speaker",
		"idx_submissions_requirement",
		"idx_submissions_pair",
		"idx_submissions_uploaded_at",
		"idx_submissions_one_latest",
		"idx_reminders_speaker",
		"idx_reminders_event",
		"idx_reminders_status",
		"idx_reminders_created_at",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
