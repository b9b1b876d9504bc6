package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, uuid, poster_key, display_name, source, size, background_key, background_label, sheet_path, status, error_message, created_at, updated_at, printed_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id              int64
		uuidStr         string
		posterKey       sql.NullString
		displayName     sql.NullString
		source          sql.NullString
		size            sql.NullString
		backgroundKey   sql.NullString
		backgroundLabel sql.NullString
		sheetPath       sql.NullString
		statusStr       string
		errorMessage    sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
		printedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&uuidStr,
		&posterKey,
		&displayName,
		&source,
		&size,
		&backgroundKey,
		&backgroundLabel,
		&sheetPath,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&printedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		UUID:            uuidStr,
		PosterKey:       posterKey.String,
		DisplayName:     displayName.String,
		Source:          source.String,
		Size:            size.String,
		BackgroundKey:   backgroundKey.String,
		BackgroundLabel: backgroundLabel.String,
		SheetPath:       sheetPath.String,
		Status:          Status(statusStr),
		ErrorMessage:    errorMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if printedRaw.Valid {
		if printed, err := parseTimeString(printedRaw.String); err == nil {
			item.PrintedAt = &printed
		}
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
