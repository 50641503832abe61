package notionsync

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/store"
)

const queryPageSize = 100

// Stats summarizes what one sync run did.
type Stats struct {
	Created int
	Deleted int
	Skipped int
}

// Syncer pushes a user's transactions into one Notion database.
type Syncer struct {
	accounts     store.AccountStore
	categories   store.CategoryStore
	transactions store.TransactionStore
	notion       NotionService
	databaseID   string
	log          zerolog.Logger
}

// NewSyncer builds a syncer over the given stores and Notion database.
func NewSyncer(accounts store.AccountStore, categories store.CategoryStore, transactions store.TransactionStore, notion NotionService, databaseID string, log zerolog.Logger) *Syncer {
	return &Syncer{
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		notion:       notion,
		databaseID:   databaseID,
		log:          log,
	}
}

// Sync mirrors the user's transactions in the date range into Notion. Pages
// whose transaction no longer exists are archived; transactions already
// synced are skipped. With dryRun set, only the would-be changes are logged.
// Per-page failures are logged and skipped so one bad row cannot stall the
// rest of the run.
func (s *Syncer) Sync(ctx context.Context, userID string, from, to civil.Date, dryRun bool) (Stats, error) {
	var stats Stats

	transactions, err := s.transactions.ListTransactions(ctx, store.TransactionFilter{
		UserID: userID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return stats, fmt.Errorf("Sync: listing transactions: %w", err)
	}

	valid := make(map[string]bool, len(transactions))
	for _, tx := range transactions {
		valid[tx.ID] = true
	}

	pages, err := s.allPages(ctx)
	if err != nil {
		return stats, fmt.Errorf("Sync: querying existing pages: %w", err)
	}

	existing := make(map[string]bool)
	for _, page := range pages {
		txID := pageTransactionID(page)
		if txID != "" {
			existing[txID] = true
		}

		if txID != "" && valid[txID] {
			continue
		}
		if dryRun {
			s.log.Info().Str("page_id", string(page.ID)).Str("transaction_id", txID).Msg("Would archive stale page")
			stats.Deleted++
			continue
		}
		if err := s.notion.DeletePage(ctx, string(page.ID)); err != nil {
			s.log.Warn().Err(err).Str("page_id", string(page.ID)).Msg("Failed to archive stale page")
			continue
		}
		stats.Deleted++
	}

	accountNames := make(map[string]string)
	for _, tx := range transactions {
		if existing[tx.ID] {
			stats.Skipped++
			continue
		}
		if dryRun {
			s.log.Info().Str("transaction_id", tx.ID).Msg("Would create page")
			stats.Created++
			continue
		}

		category, err := s.categories.GetCategory(ctx, tx.CategoryID)
		if err != nil {
			s.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("Skipping transaction with unknown category")
			continue
		}
		accountName := ""
		if tx.AccountID != "" {
			name, ok := accountNames[tx.AccountID]
			if !ok {
				account, err := s.accounts.GetAccount(ctx, tx.AccountID)
				if err == nil {
					name = account.Name
				}
				accountNames[tx.AccountID] = name
			}
			accountName = name
		}

		props := transactionProperties(tx, category, accountName)
		if _, err := s.notion.CreatePage(ctx, s.databaseID, props); err != nil {
			s.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("Failed to create page")
			continue
		}
		stats.Created++
	}

	s.log.Info().
		Int("created", stats.Created).
		Int("deleted", stats.Deleted).
		Int("skipped", stats.Skipped).
		Int("total", len(transactions)).
		Msg("Notion sync completed")
	return stats, nil
}

// allPages walks the database query cursor to the end.
func (s *Syncer) allPages(ctx context.Context) ([]notionapi.Page, error) {
	var all []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{PageSize: queryPageSize}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := s.notion.QueryDatabase(ctx, s.databaseID, req)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)

		if !resp.HasMore {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}
