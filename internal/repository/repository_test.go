package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// Helper to create a new ACTIVE auction
func newAuction(auctionID, itemID string, startPrice string) model.Auction {
	return model.Auction{
		AuctionID:  auctionID,
		ItemID:     itemID,
		StartPrice: dec(startPrice),
		Status:     model.AuctionStatusActive,
		StartTime:  baseTime,
		EndTime:    baseTime.Add(time.Hour),
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
}

// Helper to create a new Bid
func newBid(auctionID, userID, amount string, createdAt time.Time) model.Bid {
	return model.Bid{
		BidID:     uuid.NewString(),
		AuctionID: auctionID,
		UserID:    userID,
		Amount:    dec(amount),
		Source:    model.BidSourceManual,
		CreatedAt: createdAt,
	}
}

func newSQLiteRepo(t *testing.T) *GormRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewGormRepo(db)
	require.NoError(t, repo.Migrate())
	return repo
}

// ledgers returns a fresh instance of every AuctionLedger implementation
func ledgers(t *testing.T) map[string]AuctionLedger {
	return map[string]AuctionLedger{
		"memory": NewMemoryRepo(),
		"sqlite": newSQLiteRepo(t),
	}
}

func appendBid(ctx context.Context, repo AuctionLedger, bid model.Bid) error {
	return repo.RunInAuction(ctx, bid.AuctionID, func(tx AuctionTx) error {
		return tx.AppendBid(bid)
	})
}

func TestLedger_CreateAuction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))

			got, err := repo.GetAuction(ctx, "a1")
			require.NoError(t, err)
			require.Equal(t, "item1", got.ItemID)
			require.True(t, got.StartPrice.Equal(dec("10")))
			require.False(t, got.CurrentBid.Valid)

			err = repo.CreateAuction(ctx, newAuction("a1", "item9", "10"))
			require.ErrorIs(t, err, biddingerrors.ErrAuctionExists)

			err = repo.CreateAuction(ctx, newAuction("a2", "item1", "10"))
			require.ErrorIs(t, err, biddingerrors.ErrItemAtAuction)

			_, err = repo.ForceEnd(ctx, "a1", "")
			require.NoError(t, err)
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a2", "item1", "10")), "ended auctions release the item")

			_, err = repo.GetAuction(ctx, "missing")
			require.ErrorIs(t, err, biddingerrors.ErrAuctionNotFound)
		})
	}
}

func TestLedger_AppendBid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))

			tests := []struct {
				name    string
				bid     model.Bid
				wantErr error
			}{
				{name: "not_above_start_price", bid: newBid("a1", "u1", "10", baseTime), wantErr: biddingerrors.ErrBidTooLow},
				{name: "first_bid", bid: newBid("a1", "u1", "12", baseTime.Add(time.Second))},
				{name: "equal_to_current", bid: newBid("a1", "u2", "12", baseTime.Add(2*time.Second)), wantErr: biddingerrors.ErrBidTooLow},
				{name: "below_current", bid: newBid("a1", "u2", "11.50", baseTime.Add(3*time.Second)), wantErr: biddingerrors.ErrBidTooLow},
				{name: "higher_bid", bid: newBid("a1", "u2", "12.01", baseTime.Add(4*time.Second))},
				{name: "other_auction", bid: newBid("a2", "u2", "50", baseTime.Add(5*time.Second)), wantErr: biddingerrors.ErrInvalidBid},
			}

			for _, tc := range tests {
				err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
					return tx.AppendBid(tc.bid)
				})
				if tc.wantErr != nil {
					require.ErrorIs(t, err, tc.wantErr, tc.name)
					continue
				}
				require.NoError(t, err, tc.name)
			}

			auction, err := repo.GetAuction(ctx, "a1")
			require.NoError(t, err)
			require.True(t, auction.CurrentBid.Valid)
			require.True(t, auction.CurrentBid.Decimal.Equal(dec("12.01")))

			bids, err := repo.GetBidsByAuction(ctx, "a1")
			require.NoError(t, err)
			require.Len(t, bids, 2)
			require.Equal(t, "u1", bids[0].UserID)
			require.Equal(t, "u2", bids[1].UserID)
		})
	}
}

func TestLedger_AppendBidRejectsMinimum(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))
	require.NoError(t, appendBid(ctx, repo, newBid("a1", "u1", "25", baseTime)))

	err := appendBid(ctx, repo, newBid("a1", "u2", "20", baseTime))
	var rejection *biddingerrors.RejectionError
	require.True(t, errors.As(err, &rejection))
	require.True(t, rejection.Minimum.Valid)
	require.True(t, rejection.Minimum.Decimal.Equal(dec("25")))
}

func TestLedger_AppendBidOnEndedAuction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))
			_, err := repo.ForceEnd(ctx, "a1", "")
			require.NoError(t, err)

			err = appendBid(ctx, repo, newBid("a1", "u1", "50", baseTime))
			require.ErrorIs(t, err, biddingerrors.ErrAuctionEnded)
			require.ErrorIs(t, err, biddingerrors.ErrAuctionNotActive)
		})
	}
}

func TestLedger_RunInAuctionRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("boom")

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))

			err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
				if err := tx.AppendBid(newBid("a1", "u1", "20", baseTime)); err != nil {
					return err
				}
				if _, err := tx.UpsertProxyBid(model.ProxyBid{
					ProxyBidID: uuid.NewString(), AuctionID: "a1", UserID: "u1",
					MaxAmount: dec("100"), CreatedAt: baseTime, UpdatedAt: baseTime,
				}); err != nil {
					return err
				}
				a := tx.Auction()
				a.EndTime = a.EndTime.Add(time.Minute)
				a.ExtendedCount++
				if err := tx.SaveAuction(a); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			auction, err := repo.GetAuction(ctx, "a1")
			require.NoError(t, err)
			require.False(t, auction.CurrentBid.Valid)
			require.Equal(t, 0, auction.ExtendedCount)
			require.True(t, auction.EndTime.Equal(baseTime.Add(time.Hour)))

			_, err = repo.GetBidsByAuction(ctx, "a1")
			require.ErrorIs(t, err, biddingerrors.ErrNoBids)

			proxies, err := repo.ListProxyBids(ctx, "a1")
			require.NoError(t, err)
			require.Empty(t, proxies)
		})
	}
}

func TestLedger_RunInAuctionSeesStagedWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))
			require.NoError(t, appendBid(ctx, repo, newBid("a1", "u1", "20", baseTime)))

			err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
				require.NoError(t, tx.AppendBid(newBid("a1", "u2", "30", baseTime.Add(time.Second))))

				winning, ok, err := tx.WinningBid()
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, "u2", winning.UserID)

				n, err := tx.BidCount()
				require.NoError(t, err)
				require.Equal(t, 2, n)

				require.True(t, tx.Auction().PriceFloor().Equal(dec("30")))
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestLedger_SaveAuctionGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(a *model.Auction)
	}{
		{name: "end_time_backwards", mutate: func(a *model.Auction) { a.EndTime = a.EndTime.Add(-time.Minute) }},
		{name: "extension_count_decreased", mutate: func(a *model.Auction) { a.ExtendedCount = -1 }},
		{name: "current_bid_rewritten", mutate: func(a *model.Auction) { a.CurrentBid = decimal.NewNullDecimal(dec("99")) }},
		{name: "status_backwards", mutate: func(a *model.Auction) { a.Status = model.AuctionStatusScheduled }},
		{name: "id_changed", mutate: func(a *model.Auction) { a.AuctionID = "other" }},
	}

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))

			for _, tc := range tests {
				err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
					a := tx.Auction()
					tc.mutate(&a)
					return tx.SaveAuction(a)
				})
				require.ErrorIs(t, err, biddingerrors.ErrInvalidTransition, tc.name)
			}

			// forward moves are accepted
			err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
				a := tx.Auction()
				a.EndTime = a.EndTime.Add(5 * time.Minute)
				a.ExtendedCount++
				return tx.SaveAuction(a)
			})
			require.NoError(t, err)

			got, err := repo.GetAuction(ctx, "a1")
			require.NoError(t, err)
			require.Equal(t, 1, got.ExtendedCount)
			require.True(t, got.EndTime.Equal(baseTime.Add(65*time.Minute)))
		})
	}
}

func TestLedger_ProxyBids(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))

			upsert := func(userID, max string, at time.Time) model.ProxyBid {
				var saved model.ProxyBid
				err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
					var err error
					saved, err = tx.UpsertProxyBid(model.ProxyBid{
						ProxyBidID: uuid.NewString(), AuctionID: "a1", UserID: userID,
						MaxAmount: dec(max), CreatedAt: at, UpdatedAt: at,
					})
					return err
				})
				require.NoError(t, err)
				return saved
			}

			first := upsert("u1", "50", baseTime)
			upsert("u2", "80", baseTime.Add(time.Second))
			upsert("u3", "50", baseTime.Add(2*time.Second))

			// replacing keeps the original registration time
			replaced := upsert("u1", "60", baseTime.Add(3*time.Second))
			require.Equal(t, first.ProxyBidID, replaced.ProxyBidID)
			require.True(t, replaced.CreatedAt.Equal(baseTime))
			require.True(t, replaced.MaxAmount.Equal(dec("60")))

			upsert("u4", "60", baseTime.Add(4*time.Second))

			proxies, err := repo.ListProxyBids(ctx, "a1")
			require.NoError(t, err)
			require.Len(t, proxies, 4)

			order := make([]string, 0, len(proxies))
			for _, p := range proxies {
				order = append(order, p.UserID)
			}
			require.Equal(t, []string{"u2", "u1", "u4", "u3"}, order)
		})
	}
}

func TestLedger_ForceEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))
			require.NoError(t, appendBid(ctx, repo, newBid("a1", "u1", "20", baseTime)))
			require.NoError(t, appendBid(ctx, repo, newBid("a1", "u2", "25", baseTime.Add(time.Second))))

			ended, err := repo.ForceEnd(ctx, "a1", "")
			require.NoError(t, err)
			require.Equal(t, model.AuctionStatusEnded, ended.Status)
			require.NotNil(t, ended.WinnerID)
			require.Equal(t, "u2", *ended.WinnerID)

			// ending again is a no-op and keeps the winner
			again, err := repo.ForceEnd(ctx, "a1", "u1")
			require.NoError(t, err)
			require.Equal(t, "u2", *again.WinnerID)

			require.NoError(t, repo.CreateAuction(ctx, newAuction("a2", "item2", "10")))
			chosen, err := repo.ForceEnd(ctx, "a2", "u7")
			require.NoError(t, err)
			require.Equal(t, "u7", *chosen.WinnerID)

			require.NoError(t, repo.CreateAuction(ctx, newAuction("a3", "item3", "10")))
			noBids, err := repo.ForceEnd(ctx, "a3", "")
			require.NoError(t, err)
			require.Nil(t, noBids.WinnerID)

			stored, err := repo.GetAuction(ctx, "a1")
			require.NoError(t, err)
			require.Equal(t, model.AuctionStatusEnded, stored.Status)

			_, err = repo.ForceEnd(ctx, "missing", "")
			require.ErrorIs(t, err, biddingerrors.ErrAuctionNotFound)
		})
	}
}

func TestLedger_ListAuctionsByStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			scheduled := newAuction("a1", "item1", "10")
			scheduled.Status = model.AuctionStatusScheduled
			require.NoError(t, repo.CreateAuction(ctx, scheduled))
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a2", "item2", "10")))
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a3", "item3", "10")))

			active, err := repo.ListAuctionsByStatus(ctx, model.AuctionStatusActive)
			require.NoError(t, err)
			require.Len(t, active, 2)

			pending, err := repo.ListAuctionsByStatus(ctx, model.AuctionStatusScheduled)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			require.Equal(t, "a1", pending[0].AuctionID)

			ended, err := repo.ListAuctionsByStatus(ctx, model.AuctionStatusEnded)
			require.NoError(t, err)
			require.Empty(t, ended)
		})
	}
}

// concurrency test
func TestLedger_ConcurrentUnits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, repo := range ledgers(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateAuction(ctx, newAuction("a1", "item1", "10")))

			// every worker bids one above whatever it reads; units must not interleave
			var wg sync.WaitGroup
			concurrentCount := 20
			for i := 0; i < concurrentCount; i++ {
				wg.Add(1)
				i := i
				go func() {
					defer wg.Done()
					err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
						next := tx.Auction().PriceFloor().Add(decimal.NewFromInt(1))
						b := newBid("a1", fmt.Sprintf("user-%d", i), next.String(), baseTime.Add(time.Duration(i)*time.Millisecond))
						return tx.AppendBid(b)
					})
					require.NoError(t, err)
				}()
			}
			wg.Wait()

			bids, err := repo.GetBidsByAuction(ctx, "a1")
			require.NoError(t, err)
			require.Len(t, bids, concurrentCount)

			auction, err := repo.GetAuction(ctx, "a1")
			require.NoError(t, err)
			require.True(t, auction.CurrentBid.Decimal.Equal(dec("30")))
		})
	}
}

func TestMemoryRepo_RunInAuctionCancelledContext(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateAuction(context.Background(), newAuction("a1", "item1", "10")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repo.RunInAuction(ctx, "a1", func(tx AuctionTx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestClassifyStoreError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantConflict bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("disk full")},
		{name: "not_found", err: gorm.ErrRecordNotFound},
		{name: "pg_serialization_failure", err: &pgconn.PgError{Code: "40001"}, wantConflict: true},
		{name: "pg_deadlock", err: fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"}), wantConflict: true},
		{name: "pg_unique_violation", err: &pgconn.PgError{Code: "23505"}},
		{name: "sqlite_busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, wantConflict: true},
		{name: "sqlite_locked", err: sqlite3.Error{Code: sqlite3.ErrLocked}, wantConflict: true},
		{name: "sqlite_constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := classifyStoreError(tc.err)
			if tc.err == nil {
				require.NoError(t, got)
				return
			}
			require.Equal(t, tc.wantConflict, errors.Is(got, biddingerrors.ErrStoreConflict))
		})
	}
}
