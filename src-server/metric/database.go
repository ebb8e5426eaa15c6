package metric

import (
	"context"
	"time"

	"calendar/src-server/model"
	"calendar/src-server/utils"
)

func database(as *utils.AppState) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := model.Ping(ctx, as.BunDB); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
