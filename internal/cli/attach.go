package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pocketorg/organizer/internal/model"
	"github.com/pocketorg/organizer/internal/netx"
)

// attach uploads a file as the attachment of a receipt: the server hands
// out a presigned PUT URL, the blob goes straight to object storage, and
// the receipt record keeps only the storage key.
func (a *App) attach(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: attach <receipt-id> <file>")
		return
	}
	receiptID, path := args[0], args[1]

	rec, err := a.engine.Get(model.EntityReceipts, receiptID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Error reading file:", err)
		return
	}

	key, url, err := a.remote.PresignAttachmentPut(ctx)
	if err != nil {
		fmt.Println("Error requesting upload slot:", err)
		return
	}

	if err := netx.UploadToPresignedURL(url, data); err != nil {
		fmt.Println("Upload failed:", err)
		return
	}

	rec.Fields["attachment_key"] = key
	rec.UpdatedAt = 0 // re-stamp on upsert
	if _, err := a.engine.Upsert(ctx, model.EntityReceipts, rec); err != nil {
		fmt.Println("Error saving receipt:", err)
		return
	}

	fmt.Println("Attached as", key)
}

// fetch prints a short-lived download URL for a receipt's attachment.
func (a *App) fetch(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: fetch <receipt-id>")
		return
	}

	rec, err := a.engine.Get(model.EntityReceipts, args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	key, _ := rec.Fields["attachment_key"].(string)
	if key == "" {
		fmt.Println("Receipt has no attachment")
		return
	}

	url, err := a.remote.PresignAttachmentGet(ctx, key)
	if err != nil {
		fmt.Println("Error requesting download URL:", err)
		return
	}

	fmt.Println(url)
}
