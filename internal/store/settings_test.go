package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/store"
	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
)

var _ = Describe("SettingsStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
		Expect(s.Migrate(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Get", func() {
		// Given an empty settings table
		// When we read the settings
		// Then a not found error is returned
		It("should return a not found error when nothing was saved", func() {
			_, err := s.Settings().Get(ctx)

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should return saved settings", func() {
			err := s.Settings().Save(ctx, &models.Settings{IgnoreMobsWithNoPlayerContext: true})
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := s.Settings().Get(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.IgnoreMobsWithNoPlayerContext).To(BeTrue())
			Expect(retrieved.UpdatedAt).NotTo(BeZero())
		})
	})

	Context("Save", func() {
		// Given settings already stored
		// When we save different settings
		// Then the single row is updated
		It("should upsert existing settings", func() {
			Expect(s.Settings().Save(ctx, &models.Settings{IgnoreMobsWithNoPlayerContext: true})).To(Succeed())
			Expect(s.Settings().Save(ctx, &models.Settings{IgnoreMobsWithNoPlayerContext: false})).To(Succeed())

			retrieved, err := s.Settings().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.IgnoreMobsWithNoPlayerContext).To(BeFalse())

			var rows int
			Expect(db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&rows)).To(Succeed())
			Expect(rows).To(Equal(1))
		})
	})

	Context("Concurrent writes", func() {
		It("should handle concurrent writes from multiple goroutines", func() {
			const numGoroutines = 50
			var wg sync.WaitGroup
			errs := make(chan error, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					settings := &models.Settings{IgnoreMobsWithNoPlayerContext: idx%2 == 0}
					if err := s.Settings().Save(ctx, settings); err != nil {
						errs <- fmt.Errorf("goroutine %d: %w", idx, err)
					}
				}(i)
			}

			wg.Wait()
			close(errs)

			var all []error
			for err := range errs {
				all = append(all, err)
			}
			Expect(all).To(BeEmpty(), "Expected no errors from concurrent writes, got: %v", all)

			_, err := s.Settings().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
