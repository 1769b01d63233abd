package scheduler

import (
	"context"
	"log"
	"time"

	authRepo "attendance_backend/internals/features/users/auth/repository"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CleanupBlacklist deletes blacklist rows that expired more than ttlDays ago.
func CleanupBlacklist(ctx context.Context, db *gorm.DB, now time.Time, ttlDays int) (int64, error) {
	if ttlDays < 0 {
		ttlDays = 0
	}
	deleteBefore := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	return authRepo.CleanupExpiredBlacklist(ctx, db, deleteBefore)
}

// StartBlacklistCleanupScheduler runs CleanupBlacklist every day at 03:00.
func StartBlacklistCleanupScheduler(db *gorm.DB, ttlDays int, loc *time.Location) *cron.Cron {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc("0 3 * * *", func() {
		log.Println("[CLEANUP] running token_blacklist cleanup")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := CleanupBlacklist(ctx, db, time.Now(), ttlDays)
		if err != nil {
			log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
			return
		}
		log.Printf("[CLEANUP] %d expired tokens deleted", n)
	})
	if err != nil {
		log.Fatalf("[CLEANUP] add cron failed: %v", err)
	}
	c.Start()
	return c
}
