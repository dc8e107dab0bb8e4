package cache

import (
	"testing"
	"time"

	"flota-backend/internal/config"
	"flota-backend/internal/models"
	"flota-backend/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*miniredis.Miniredis, *RedisManager) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(config.RedisConfig{
		Host:        mr.Host(),
		Port:        mr.Port(),
		PoolSize:    5,
		DialTimeout: time.Second,
	})
	t.Cleanup(func() { client.Close() })

	cfg := DefaultConfig()
	cfg.KeyPrefix = "test:"
	cfg.TagPrefix = "test_tag:"

	return mr, NewRedisManager(client, cfg)
}

func testVehicle(plate, costCenter string) *models.Vehicle {
	return &models.Vehicle{
		Plate:             plate,
		Make:              "Toyota",
		Model:             "Hilux",
		Status:            models.VehicleStatusActive,
		CurrentKm:         52000,
		NextServiceKm:     60000,
		ServiceIntervalKm: 10000,
		CostCenter:        costCenter,
	}
}

func TestRedisManager_VehicleOperations(t *testing.T) {
	_, manager := newTestManager(t)

	vehicle := testVehicle("AB123CD", "LOGISTICA")

	t.Run("SetVehicle", func(t *testing.T) {
		err := manager.SetVehicle(vehicle.Plate, vehicle, 30*time.Second)
		assert.NoError(t, err)
	})

	t.Run("GetVehicle", func(t *testing.T) {
		got, err := manager.GetVehicle(vehicle.Plate)
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, vehicle.Plate, got.Plate)
		assert.Equal(t, vehicle.CurrentKm, got.CurrentKm)
		assert.Equal(t, vehicle.CostCenter, got.CostCenter)
	})

	t.Run("GetVehicle_NotFound", func(t *testing.T) {
		got, err := manager.GetVehicle("ZZ999ZZ")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateVehicle", func(t *testing.T) {
		err := manager.InvalidateVehicle(vehicle.Plate)
		assert.NoError(t, err)

		got, err := manager.GetVehicle(vehicle.Plate)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisManager_TTLExpiration(t *testing.T) {
	mr, manager := newTestManager(t)

	vehicle := testVehicle("TT100LL", "")

	err := manager.SetVehicle(vehicle.Plate, vehicle, 100*time.Millisecond)
	require.NoError(t, err)

	got, err := manager.GetVehicle(vehicle.Plate)
	require.NoError(t, err)
	require.NotNil(t, got)

	mr.FastForward(200 * time.Millisecond)

	got, err = manager.GetVehicle(vehicle.Plate)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisManager_TagInvalidation(t *testing.T) {
	_, manager := newTestManager(t)

	logistics1 := testVehicle("LG001AA", "LOGISTICA")
	logistics2 := testVehicle("LG002BB", "LOGISTICA")
	mining := testVehicle("MN003CC", "MINERIA")

	for _, v := range []*models.Vehicle{logistics1, logistics2, mining} {
		require.NoError(t, manager.SetVehicle(v.Plate, v, 5*time.Minute))
	}

	t.Run("InvalidateByCostCenter", func(t *testing.T) {
		err := manager.InvalidateByTag("cost_center:LOGISTICA")
		assert.NoError(t, err)

		got, err := manager.GetVehicle(logistics1.Plate)
		assert.NoError(t, err)
		assert.Nil(t, got)

		got, err = manager.GetVehicle(logistics2.Plate)
		assert.NoError(t, err)
		assert.Nil(t, got)

		got, err = manager.GetVehicle(mining.Plate)
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "MINERIA", got.CostCenter)
	})

	t.Run("InvalidateVehicleDropsFleetLists", func(t *testing.T) {
		fleet := []models.Vehicle{*mining}
		require.NoError(t, manager.SetFleet("all", fleet, 5*time.Minute))

		err := manager.InvalidateVehicle(mining.Plate)
		assert.NoError(t, err)

		got, err := manager.GetFleet("all")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisManager_FleetOperations(t *testing.T) {
	_, manager := newTestManager(t)

	fleet := []models.Vehicle{
		*testVehicle("FL001AA", "LOGISTICA"),
		*testVehicle("FL002BB", "MINERIA"),
	}

	t.Run("SetFleet", func(t *testing.T) {
		err := manager.SetFleet("all", fleet, 2*time.Minute)
		assert.NoError(t, err)
	})

	t.Run("GetFleet", func(t *testing.T) {
		got, err := manager.GetFleet("all")
		assert.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "FL001AA", got[0].Plate)
		assert.Equal(t, "FL002BB", got[1].Plate)
	})

	t.Run("GetFleet_NotFound", func(t *testing.T) {
		got, err := manager.GetFleet("nonexistent")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisManager_AlertOperations(t *testing.T) {
	_, manager := newTestManager(t)

	alerts := []models.Alert{
		{
			ID:       "service:AB123CD",
			Kind:     models.AlertKindService,
			Plate:    "AB123CD",
			Severity: models.SeverityAlta,
			Message:  "SERVICE VENCIDO (KM EXCEDIDO)",
			Detail:   "1500 KM EXCEDIDOS",
		},
		{
			ID:       "document:XY987ZT",
			Kind:     models.AlertKindDocument,
			Plate:    "XY987ZT",
			Severity: models.SeverityMedia,
			Message:  "VTV POR VENCER",
			Detail:   "15 DÍAS RESTANTES",
		},
	}

	t.Run("SetAlerts", func(t *testing.T) {
		err := manager.SetAlerts("snapshot", alerts, time.Minute)
		assert.NoError(t, err)
	})

	t.Run("GetAlerts", func(t *testing.T) {
		got, err := manager.GetAlerts("snapshot")
		assert.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, alerts[0], got[0])
		assert.Equal(t, alerts[1], got[1])
	})

	t.Run("InvalidatedByPlate", func(t *testing.T) {
		err := manager.InvalidateByTag("vehicle:AB123CD")
		assert.NoError(t, err)

		got, err := manager.GetAlerts("snapshot")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisManager_GenericOperations(t *testing.T) {
	_, manager := newTestManager(t)

	t.Run("SetAndGet", func(t *testing.T) {
		report := models.CostReport{
			Total:         125000,
			AvgPerVehicle: 62500,
			ByPlate:       map[string]float64{"AB123CD": 75000, "XY987ZT": 50000},
		}
		require.NoError(t, manager.Set("cost_report", report, time.Minute))

		var got models.CostReport
		found, err := manager.Get("cost_report", &got)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, report.Total, got.Total)
		assert.Equal(t, report.ByPlate, got.ByPlate)
	})

	t.Run("Get_Miss", func(t *testing.T) {
		var got models.CostReport
		found, err := manager.Get("missing", &got)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRedisManager_Stats(t *testing.T) {
	_, manager := newTestManager(t)

	stats := manager.Stats()
	assert.Equal(t, int64(0), stats.TotalHits)
	assert.Equal(t, int64(0), stats.TotalMisses)

	_, err := manager.GetVehicle("NO123PE")
	require.NoError(t, err)

	stats = manager.Stats()
	assert.Equal(t, int64(1), stats.TotalMisses)
	assert.Equal(t, 1.0, stats.MissRate)

	vehicle := testVehicle("NO123PE", "")
	require.NoError(t, manager.SetVehicle(vehicle.Plate, vehicle, time.Minute))

	_, err = manager.GetVehicle(vehicle.Plate)
	require.NoError(t, err)

	stats = manager.Stats()
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, 0.5, stats.HitRate)
}

func TestRedisManager_HealthCheck(t *testing.T) {
	mr, manager := newTestManager(t)

	assert.NoError(t, manager.HealthCheck())

	mr.Close()
	assert.Error(t, manager.HealthCheck())
}

func TestRedisManager_InvalidateFleetLists(t *testing.T) {
	_, manager := newTestManager(t)

	active := []models.Vehicle{*testVehicle("AB123CD", "LOGISTICA")}
	all := append(active, *testVehicle("EF456GH", "VENTAS"))

	require.NoError(t, manager.SetFleet("all", all, 2*time.Minute))
	require.NoError(t, manager.SetFleet("status_ACTIVE", active, 2*time.Minute))
	require.NoError(t, manager.SetVehicle("AB123CD", &all[0], 30*time.Second))

	require.NoError(t, manager.InvalidateFleetLists())

	t.Run("DropsEveryListing", func(t *testing.T) {
		for _, key := range []string{"all", "status_ACTIVE"} {
			got, err := manager.GetFleet(key)
			assert.NoError(t, err)
			assert.Nil(t, got, "listing %q should be gone", key)
		}
	})

	t.Run("KeepsVehicleEntries", func(t *testing.T) {
		got, err := manager.GetVehicle("AB123CD")
		assert.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("EmptyListingIsStillDropped", func(t *testing.T) {
		require.NoError(t, manager.SetFleet("status_INACTIVE", []models.Vehicle{}, 2*time.Minute))
		require.NoError(t, manager.InvalidateFleetLists())

		got, err := manager.GetFleet("status_INACTIVE")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
