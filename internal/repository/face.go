package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/lanternsec/facegate/internal/domain"
)

type FaceRepository struct {
	pool PgxPool
}

func NewFaceRepository(pool PgxPool) *FaceRepository {
	return &FaceRepository{pool: pool}
}

// ReplaceAll swaps the user's enrollment set for the given faces in one
// transaction. Each insert runs inside its own savepoint so a single bad
// row is dropped without poisoning the rest; if nothing at all could be
// written the whole transaction is rolled back and the previous set
// survives. Returns the number of rows actually persisted.
func (r *FaceRepository) ReplaceAll(ctx context.Context, userID uuid.UUID, faces []domain.Face) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin replace faces: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faces WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("clear faces: %w", err)
	}

	persisted := 0
	for i := range faces {
		face := &faces[i]
		face.UserID = userID
		if face.ID == uuid.Nil {
			face.ID = uuid.New()
		}
		if face.CaptureType == "" {
			face.CaptureType = domain.CaptureNormal
		}

		if err := r.insertInSavepoint(ctx, tx, face); err != nil {
			continue
		}
		persisted++
	}

	if persisted == 0 {
		return 0, fmt.Errorf("replace faces: none of %d rows persisted", len(faces))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit replace faces: %w", err)
	}

	return persisted, nil
}

func (r *FaceRepository) insertInSavepoint(ctx context.Context, tx pgx.Tx, face *domain.Face) error {
	query := `
		INSERT INTO faces (id, user_id, embedding, capture_type, quality, sample_idx, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}

	err = sp.QueryRow(ctx, query,
		face.ID,
		face.UserID,
		toVector(face.Embedding),
		face.CaptureType,
		face.Quality,
		face.SampleIdx,
		face.Metadata,
	).Scan(&face.CreatedAt)

	if err != nil {
		_ = sp.Rollback(ctx)
		return fmt.Errorf("insert face: %w", err)
	}

	return sp.Commit(ctx)
}

func (r *FaceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Face, error) {
	query := `
		SELECT id, user_id, embedding, capture_type, quality, sample_idx, metadata, created_at
		FROM faces
		WHERE user_id = $1
		ORDER BY sample_idx
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list faces by user: %w", err)
	}
	defer rows.Close()

	return scanFaces(rows)
}

// ListCandidates returns the authentication candidate population: every
// enrolled face whose owner is active, in a stable creation order so
// repeated searches see the same sequence.
func (r *FaceRepository) ListCandidates(ctx context.Context) ([]domain.Face, error) {
	query := `
		SELECT f.id, f.user_id, f.embedding, f.capture_type, f.quality, f.sample_idx, f.metadata, f.created_at
		FROM faces f
		JOIN users u ON u.id = f.user_id
		WHERE u.is_active = true
		ORDER BY f.created_at, f.sample_idx
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list candidate faces: %w", err)
	}
	defer rows.Close()

	return scanFaces(rows)
}

// ListAll returns every enrolled face across all users, ordered by
// creation time. Used to build the in-memory duplicate index at startup.
func (r *FaceRepository) ListAll(ctx context.Context) ([]domain.Face, error) {
	query := `
		SELECT id, user_id, embedding, capture_type, quality, sample_idx, metadata, created_at
		FROM faces
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all faces: %w", err)
	}
	defer rows.Close()

	return scanFaces(rows)
}

func (r *FaceRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM faces
		WHERE user_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count faces by user: %w", err)
	}

	return count, nil
}

func (r *FaceRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	query := `
		DELETE FROM faces
		WHERE user_id = $1
	`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete faces by user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNoFacesEnrolled
	}

	return nil
}

func scanFaces(rows pgx.Rows) ([]domain.Face, error) {
	var faces []domain.Face
	for rows.Next() {
		var face domain.Face
		var vec *pgvector.Vector

		if err := rows.Scan(
			&face.ID,
			&face.UserID,
			&vec,
			&face.CaptureType,
			&face.Quality,
			&face.SampleIdx,
			&face.Metadata,
			&face.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan face row: %w", err)
		}

		face.Embedding = fromVector(vec)
		faces = append(faces, face)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate face rows: %w", err)
	}

	return faces, nil
}
