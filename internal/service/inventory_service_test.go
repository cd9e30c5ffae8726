package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/org-services/internal/domain"
	"github.com/spec-kit/org-services/internal/repository/memory"
	apperrors "github.com/spec-kit/org-services/pkg/util/errorutil"
)

func TestInventoryService_IsInStock(t *testing.T) {
	repo := memory.NewInventoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &domain.InventoryItem{SKUCode: "iphone_13", Quantity: 100}))
	require.NoError(t, repo.Upsert(ctx, &domain.InventoryItem{SKUCode: "iphone_13_red", Quantity: 0}))
	svc := NewInventoryService(repo)

	tests := []struct {
		sku  string
		want bool
	}{
		{"iphone_13", true},
		{"iphone_13_red", false},
		{"pixel_8", false},
	}
	for _, tt := range tests {
		t.Run(tt.sku, func(t *testing.T) {
			got, err := svc.IsInStock(ctx, tt.sku)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.IsInStock(ctx, "  ")
	requireDomainError(t, err, apperrors.CodeBadRequest, http.StatusBadRequest)
}
