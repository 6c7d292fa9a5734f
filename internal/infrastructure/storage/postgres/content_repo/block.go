// Package content_repo provides the PostgreSQL implementation of the
// content block store. HTML bodies above a size threshold are kept
// zstd-compressed in a separate column so wide marketing pages do not
// bloat the row.
package content_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/klauspost/compress/zstd"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/domain/content"
	"motordesk/internal/infrastructure/storage/postgres"
)

const blocksTable = "cms_blocks"

// CompressionAlgo specifies the compression algorithm used on a body column.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const compressThreshold = 10 * 1024 // bytes

// BlockRepo implements content.Repository.
type BlockRepo struct {
	txManager *postgres.TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewBlockRepo creates a new content block repository.
func NewBlockRepo(txManager *postgres.TxManager) (*BlockRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &BlockRepo{
		txManager: txManager,
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

var _ content.Repository = (*BlockRepo)(nil)

// blockRow is the table shape of a content block. Each language body is
// stored either as plain text or as compressed bytes, never both.
type blockRow struct {
	ID           id.ID  `db:"id"`
	DeletionMark bool   `db:"deletion_mark"`
	Version      int    `db:"version"`
	Slug         string `db:"slug"`
	Title        string `db:"title"`
	TitleAr      string `db:"title_ar"`

	BodyHTML         *string         `db:"body_html"`
	BodyCompressed   []byte          `db:"body_compressed"`
	BodyHTMLAr       *string         `db:"body_html_ar"`
	BodyArCompressed []byte          `db:"body_ar_compressed"`
	CompressionAlgo  CompressionAlgo `db:"compression_algo"`

	UpdatedAt time.Time `db:"updated_at"`
}

func (r *BlockRepo) toRow(block *content.Block) *blockRow {
	row := &blockRow{
		ID:              block.ID,
		DeletionMark:    block.DeletionMark,
		Version:         block.Version,
		Slug:            block.Slug,
		Title:           block.Title,
		TitleAr:         block.TitleAr,
		CompressionAlgo: CompressionNone,
		UpdatedAt:       block.UpdatedAt,
	}

	en, enCompressed := r.compressBody(block.BodyHTML)
	ar, arCompressed := r.compressBody(block.BodyHTMLAr)
	row.BodyHTML = en
	row.BodyCompressed = enCompressed
	row.BodyHTMLAr = ar
	row.BodyArCompressed = arCompressed
	if enCompressed != nil || arCompressed != nil {
		row.CompressionAlgo = CompressionZstd
	}

	return row
}

func (r *BlockRepo) compressBody(body string) (*string, []byte) {
	if len(body) <= compressThreshold {
		return &body, nil
	}
	return nil, r.encoder.EncodeAll([]byte(body), nil)
}

func (r *BlockRepo) fromRow(row *blockRow) (*content.Block, error) {
	block := &content.Block{
		Slug:      row.Slug,
		Title:     row.Title,
		TitleAr:   row.TitleAr,
		UpdatedAt: row.UpdatedAt,
	}
	block.ID = row.ID
	block.DeletionMark = row.DeletionMark
	block.Version = row.Version

	en, err := r.decompressBody(row.BodyHTML, row.BodyCompressed, row.CompressionAlgo)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", row.Slug, err)
	}
	ar, err := r.decompressBody(row.BodyHTMLAr, row.BodyArCompressed, row.CompressionAlgo)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", row.Slug, err)
	}
	block.BodyHTML = en
	block.BodyHTMLAr = ar

	return block, nil
}

func (r *BlockRepo) decompressBody(plain *string, compressed []byte, algo CompressionAlgo) (string, error) {
	if len(compressed) > 0 && algo == CompressionZstd {
		decompressed, err := r.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return "", fmt.Errorf("decompress body: %w", err)
		}
		return string(decompressed), nil
	}
	if plain != nil {
		return *plain, nil
	}
	return "", nil
}

const blockColumns = `id, deletion_mark, version, slug, title, title_ar,
	body_html, body_compressed, body_html_ar, body_ar_compressed,
	compression_algo, updated_at`

// GetBySlug retrieves a block by its slug.
func (r *BlockRepo) GetBySlug(ctx context.Context, slug string) (*content.Block, error) {
	sql := `SELECT ` + blockColumns + ` FROM ` + blocksTable + ` WHERE slug = $1`

	row := blockRow{}
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, slug).Scan(
		&row.ID, &row.DeletionMark, &row.Version, &row.Slug, &row.Title, &row.TitleAr,
		&row.BodyHTML, &row.BodyCompressed, &row.BodyHTMLAr, &row.BodyArCompressed,
		&row.CompressionAlgo, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("content block", slug)
		}
		return nil, fmt.Errorf("get block: %w", err)
	}

	return r.fromRow(&row)
}

// Upsert inserts or replaces the block for its slug.
func (r *BlockRepo) Upsert(ctx context.Context, block *content.Block) error {
	row := r.toRow(block)

	sql := `
		INSERT INTO ` + blocksTable + ` (` + blockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			title_ar = EXCLUDED.title_ar,
			body_html = EXCLUDED.body_html,
			body_compressed = EXCLUDED.body_compressed,
			body_html_ar = EXCLUDED.body_html_ar,
			body_ar_compressed = EXCLUDED.body_ar_compressed,
			compression_algo = EXCLUDED.compression_algo,
			version = ` + blocksTable + `.version + 1,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		row.ID, row.DeletionMark, row.Version, row.Slug, row.Title, row.TitleAr,
		row.BodyHTML, row.BodyCompressed, row.BodyHTMLAr, row.BodyArCompressed,
		row.CompressionAlgo, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert block: %w", err)
	}

	return nil
}

// List returns all blocks ordered by slug.
func (r *BlockRepo) List(ctx context.Context) ([]*content.Block, error) {
	sql := `SELECT ` + blockColumns + ` FROM ` + blocksTable + ` ORDER BY slug`

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*content.Block
	for rows.Next() {
		var row blockRow
		err := rows.Scan(
			&row.ID, &row.DeletionMark, &row.Version, &row.Slug, &row.Title, &row.TitleAr,
			&row.BodyHTML, &row.BodyCompressed, &row.BodyHTMLAr, &row.BodyArCompressed,
			&row.CompressionAlgo, &row.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}

		block, err := r.fromRow(&row)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}
