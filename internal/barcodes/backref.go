package barcodes

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// referenceIndex is the Postgres implementation of ReferenceIndex. The
// products.barcode_ids column is a hand-maintained secondary index: it is
// only ever changed through Push/Pull during the mutation workflows, or
// recomputed wholesale by Rebuild when a workflow failed between writes.
type referenceIndex struct {
	db *pgxpool.Pool
}

func NewReferenceIndex(db *pgxpool.Pool) ReferenceIndex {
	return &referenceIndex{db: db}
}

func (i *referenceIndex) Push(ctx context.Context, barcodeID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := i.db.Exec(ctx,
		`UPDATE products SET barcode_ids = array_append(barcode_ids, $1)
		 WHERE id = ANY($2) AND NOT ($1 = ANY(barcode_ids))`,
		barcodeID, productIDs)
	return err
}

func (i *referenceIndex) Pull(ctx context.Context, barcodeID string) error {
	_, err := i.db.Exec(ctx,
		`UPDATE products SET barcode_ids = array_remove(barcode_ids, $1)
		 WHERE $1 = ANY(barcode_ids)`,
		barcodeID)
	return err
}

// Rebuild derives barcode_ids from the barcodes table, the source of
// truth. An empty id list rebuilds every product.
func (i *referenceIndex) Rebuild(ctx context.Context, productIDs []string) error {
	_, err := i.db.Exec(ctx,
		`UPDATE products p SET barcode_ids = COALESCE(
			(SELECT array_agg(b.id ORDER BY b.created_at)
			 FROM barcodes b
			 WHERE b.removed = FALSE AND p.id = ANY(b.product_ids)),
			'{}')
		 WHERE $1::text[] IS NULL OR cardinality($1::text[]) = 0 OR p.id = ANY($1)`,
		productIDs)
	return err
}
