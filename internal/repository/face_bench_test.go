package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
)

const embeddingSize = 128

var float32Pool = sync.Pool{
	New: func() interface{} {
		s := make([]float32, embeddingSize)
		return &s
	},
}

// BenchmarkListByUser measures row scanning plus vector decoding for a
// typical enrollment set. The query itself is mocked, so the figure is the
// pure conversion overhead.
func BenchmarkListByUser(b *testing.B) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		b.Fatal(err)
	}
	defer mock.Close()

	repo := NewFaceRepository(mock)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	floats := make([]float32, embeddingSize)
	for i := range floats {
		floats[i] = float32(i) / embeddingSize
	}

	for i := 0; i < b.N; i++ {
		rows := pgxmock.NewRows([]string{
			"id", "user_id", "embedding", "capture_type", "quality", "sample_idx", "metadata", "created_at",
		})
		for j := 0; j < 5; j++ {
			vec := pgvector.NewVector(floats)
			rows.AddRow(uuid.New(), userID, &vec, "normal", 0.9, j, map[string]interface{}{}, now)
		}
		mock.ExpectQuery(`SELECT id, user_id, embedding`).
			WithArgs(userID).
			WillReturnRows(rows)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := repo.ListByUser(ctx, userID); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFloat32Conversion benchmarks the conversion overhead
func BenchmarkFloat32Conversion(b *testing.B) {
	embedding := make([]float64, embeddingSize)
	for i := range embedding {
		embedding[i] = float64(i) / float64(embeddingSize)
	}

	b.Run("WithPool", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			floatsPtr := float32Pool.Get().(*[]float32)
			floats := (*floatsPtr)[:embeddingSize]

			for j, v := range embedding {
				floats[j] = float32(v)
			}

			_ = pgvector.NewVector(floats)
			float32Pool.Put(floatsPtr)
		}
	})

	b.Run("WithoutPool", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			floats := make([]float32, embeddingSize)

			for j, v := range embedding {
				floats[j] = float32(v)
			}

			_ = pgvector.NewVector(floats)
		}
	})
}
