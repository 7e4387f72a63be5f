package migrations

import "gorm.io/gorm"

// migration004Up creates validation functions, triggers and check constraints
func migration004Up(db *gorm.DB) error {
	functions := []string{
		`CREATE OR REPLACE FUNCTION validate_submission_chain()
        RETURNS TRIGGER AS $$
        DECLARE
            replaced_record RECORD;
        BEGIN
            -- A replaced submission must exist and belong to the same
            -- (speaker, requirement) pair with a strictly lower version
            IF NEW.replaces_submission_id IS NOT NULL THEN
                SELECT * INTO replaced_record
                FROM submissions
                WHERE id = NEW.replaces_submission_id;

                IF NOT FOUND THEN
                    RAISE EXCEPTION 'Replaced submission % does not exist', NEW.replaces_submission_id;
                END IF;

                IF replaced_record.speaker_id != NEW.speaker_id
                   OR replaced_record.asset_requirement_id != NEW.asset_requirement_id THEN
                    RAISE EXCEPTION 'Submission % replaces a submission from a different speaker/requirement pair', NEW.id;
                END IF;

                IF replaced_record.version >= NEW.version THEN
                    RAISE EXCEPTION 'Submission version % must be greater than replaced version %',
                        NEW.version, replaced_record.version;
                END IF;
            END IF;

            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,

		`CREATE OR REPLACE FUNCTION validate_requirement_event_match()
        RETURNS TRIGGER AS $$
        DECLARE
            speaker_event UUID;
            requirement_event UUID;
        BEGIN
            -- Speakers can only submit against requirements of their own event
            SELECT event_id INTO speaker_event FROM speakers WHERE id = NEW.speaker_id;
            SELECT event_id INTO requirement_event FROM asset_requirements WHERE id = NEW.asset_requirement_id;

            IF speaker_event IS NULL OR requirement_event IS NULL THEN
                RAISE EXCEPTION 'Submission references unknown speaker or requirement';
            END IF;

            IF speaker_event != requirement_event THEN
                RAISE EXCEPTION 'Speaker % and requirement % belong to different events',
                    NEW.speaker_id, NEW.asset_requirement_id;
            END IF;

            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,
	}

	for _, funcSQL := range functions {
		if err := db.Exec(funcSQL).Error; err != nil {
			return err
		}
	}

	triggers := []string{
		"CREATE TRIGGER trigger_validate_submission_chain BEFORE INSERT ON submissions FOR EACH ROW EXECUTE FUNCTION validate_submission_chain()",
		"CREATE TRIGGER trigger_validate_requirement_event BEFORE INSERT ON submissions FOR EACH ROW EXECUTE FUNCTION validate_requirement_event_match()",
	}

	for _, triggerSQL := range triggers {
		if err := db.Exec(triggerSQL).Error; err != nil {
			return err
		}
	}

	constraints := []string{
		"ALTER TABLE speakers ADD CONSTRAINT valid_speaker_email CHECK (email ~* '^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\\.[A-Za-z]{2,}$')",
		"ALTER TABLE speakers ADD CONSTRAINT valid_reminder_count CHECK (reminder_count >= 0)",
		"ALTER TABLE events ADD CONSTRAINT valid_event_name CHECK (LENGTH(name) > 0)",
		"ALTER TABLE events ADD CONSTRAINT valid_reminder_lead_days CHECK (reminder_lead_days IS NULL OR reminder_lead_days > 0)",
		"ALTER TABLE asset_requirements ADD CONSTRAINT valid_requirement_name CHECK (LENGTH(name) > 0)",
		"ALTER TABLE asset_requirements ADD CONSTRAINT valid_max_file_size CHECK (max_file_size_bytes IS NULL OR max_file_size_bytes > 0)",
		"ALTER TABLE asset_requirements ADD CONSTRAINT valid_min_dimensions CHECK ((min_image_width IS NULL OR min_image_width > 0) AND (min_image_height IS NULL OR min_image_height > 0))",
		"ALTER TABLE submissions ADD CONSTRAINT valid_version CHECK (version > 0)",
		"ALTER TABLE submissions ADD CONSTRAINT valid_file_name CHECK (LENGTH(file_name) > 0)",
		"ALTER TABLE submissions ADD CONSTRAINT valid_file_size CHECK (file_size_bytes > 0)",
		"ALTER TABLE reminders ADD CONSTRAINT sent_reminders_have_timestamp CHECK (status != 'sent' OR sent_at IS NOT NULL)",
		"ALTER TABLE reminders ADD CONSTRAINT failed_reminders_have_reason CHECK (status != 'failed' OR error_message IS NOT NULL)",
	}

	for _, constraintSQL := range constraints {
		// Use IF NOT EXISTS equivalent by catching errors
		db.Exec(constraintSQL) // Don't return error for constraints that might already exist
	}

	return nil
}

// migration004Down drops constraints and triggers
func migration004Down(db *gorm.DB) error {
	triggers := []string{
		"trigger_validate_submission_chain",
		"trigger_validate_requirement_event",
	}

	for _, trigger := range triggers {
		db.Exec("DROP TRIGGER IF EXISTS " + trigger + " ON submissions CASCADE")
	}

	functions := []string{
		"validate_submission_chain",
		"validate_requirement_event_match",
	}

	for _, function := range functions {
		if err := db.Exec("DROP FUNCTION IF EXISTS " + function + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
