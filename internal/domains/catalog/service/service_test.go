package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"concierge/config"
	otelMocks "concierge/infras/otel/mocks"
	reservationMocks "concierge/infras/reservations/mocks"
	"concierge/internal/domains/catalog/model"
	"concierge/internal/domains/catalog/service"
	"concierge/shared/cache"
	cacheMocks "concierge/shared/cache/mocks"
)

func TestCatalogService_GetAll(t *testing.T) {
	resources := []model.Resource{
		{ID: "t1", Kind: model.KindTable, Label: "Table 1", Capacity: 2, Active: true},
		{ID: "t2", Kind: model.KindTable, Label: "Table 2", Capacity: 4, Active: true},
	}

	tests := []struct {
		name      string
		setupMock func(client *reservationMocks.MockClient, cacheMock *cacheMocks.MockRedisCache)
		wantErr   bool
		wantLen   int
	}{
		{
			name: "cache hit skips the upstream call",
			setupMock: func(client *reservationMocks.MockClient, cacheMock *cacheMocks.MockRedisCache) {
				cacheMock.EXPECT().
					Get(gomock.Any(), "resource:gets:table", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*(value.(*[]model.Resource)) = resources

						return nil
					})
			},
			wantLen: 2,
		},
		{
			name: "cache miss fetches and stores",
			setupMock: func(client *reservationMocks.MockClient, cacheMock *cacheMocks.MockRedisCache) {
				cacheMock.EXPECT().
					Get(gomock.Any(), "resource:gets:table", gomock.Any()).
					Return(cache.Nil)

				client.EXPECT().
					ListResources(gomock.Any(), model.KindTable).
					Return(resources, nil)

				cacheMock.EXPECT().
					Save(gomock.Any(), "resource:gets:table", gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantLen: 2,
		},
		{
			name: "upstream failure surfaces",
			setupMock: func(client *reservationMocks.MockClient, cacheMock *cacheMocks.MockRedisCache) {
				cacheMock.EXPECT().
					Get(gomock.Any(), "resource:gets:table", gomock.Any()).
					Return(cache.Nil)

				client.EXPECT().
					ListResources(gomock.Any(), model.KindTable).
					Return(nil, errors.New("upstream down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := reservationMocks.NewMockClient(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			mockOtel := otelMocks.NewOtel()

			cfg := &config.Config{}
			cfg.Cache.TTL = 3600

			tt.setupMock(mockClient, mockCache)

			svc := service.New(mockClient, cfg, mockCache, mockOtel)

			got, err := svc.GetAll(context.Background(), model.KindTable)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)

			// Let the fire-and-forget cache save run before ctrl.Finish.
			time.Sleep(10 * time.Millisecond)
		})
	}
}
