package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// Export archives a user's history as NDJSON to object storage under the
// given key. An empty key derives one from the user ID and timestamp.
// Returns the number of exported records.
func (u *UseCase) Export(ctx context.Context, userID, key string) (int, error) {
	if u.storage == nil {
		return 0, goerr.New("storage is not configured")
	}

	records, err := u.repo.ListHistory(ctx, userID, 0)
	if err != nil {
		return 0, err
	}

	if key == "" {
		key = fmt.Sprintf("history/%s/%s.ndjson",
			userID, u.now().UTC().Format("20060102T150405Z"))
	}

	w, err := u.storage.Put(ctx, key)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open export object", goerr.V("key", key))
	}

	enc := json.NewEncoder(w)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			_ = w.Close()
			return 0, goerr.Wrap(err, "failed to encode history record",
				goerr.V("id", record.ID))
		}
	}

	if err := w.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to finalize export object", goerr.V("key", key))
	}

	return len(records), nil
}
