package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/spendwise/spendwise/internal/domain"
)

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: content},
		},
	}
}

// transactionProperties maps a transaction to the Notion transaction database
// schema: Description (title), Transaction ID, Amount, Date, Category,
// Account. Amount carries the ledger sign, so expenses show negative in
// Notion.
func transactionProperties(tx *domain.Transaction, category *domain.Category, accountName string) notionapi.Properties {
	signed, _ := domain.SignedEffect(tx.Amount, category.Type).Float64()

	props := notionapi.Properties{
		"Description": notionapi.TitleProperty{
			Title: richText(tx.Description),
		},
		"Transaction ID": notionapi.RichTextProperty{
			RichText: richText(tx.ID),
		},
		"Amount": notionapi.NumberProperty{
			Number: signed,
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Date(
						tx.Date.Year, tx.Date.Month, tx.Date.Day,
						0, 0, 0, 0, time.UTC,
					))
					return &d
				}(),
			},
		},
		"Category": notionapi.SelectProperty{
			Select: notionapi.Option{Name: category.Name},
		},
	}

	if accountName != "" {
		props["Account"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: accountName},
		}
	}
	if tx.PaymentMethod != "" {
		props["Payment Method"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.PaymentMethod},
		}
	}
	return props
}

// pageTransactionID reads the Transaction ID property off an existing page.
// Returns empty for pages created outside the sync.
func pageTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties["Transaction ID"]
	if !ok {
		return ""
	}
	rich, ok := prop.(*notionapi.RichTextProperty)
	if !ok || len(rich.RichText) == 0 {
		return ""
	}
	return rich.RichText[0].PlainText
}
