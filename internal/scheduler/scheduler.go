// Package scheduler runs the periodic maintenance jobs. The only job today is
// the unblock sweep that lifts temporary blocks whose window has passed.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/hnclone/backend/internal/services"
)

const sweepInterval = time.Hour

// Sweeper clears expired temporary blocks on a fixed interval.
type Sweeper struct {
	users    *services.UserService
	interval time.Duration
}

func NewSweeper(users *services.UserService) *Sweeper {
	return &Sweeper{users: users, interval: sweepInterval}
}

// Run blocks until ctx is cancelled, sweeping once per interval. One sweep
// runs immediately so a restart does not leave stale blocks for an hour.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Unblock sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	n, err := s.users.ClearExpiredBlocks(time.Now().UTC())
	if err != nil {
		log.Printf("Unblock sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Unblock sweep lifted %d expired block(s)", n)
	}
}
