package audit

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

// WriteCSV encodes timeline rows for download.
func WriteCSV(rows []TimelineRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"data", "ator", "acao", "entidade", "registro"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		actor := row.ActorEmail
		if actor == "" {
			actor = strconv.FormatInt(row.ActorID, 10)
		}
		record := []string{
			row.At.Format(time.RFC3339),
			actor,
			row.Action,
			row.Entity,
			row.EntityID,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
