package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/pgdesk/pgdesk/internal/tariff"
)

// TariffHolder exposes the current electricity tariff schedule.
// The schedule lives in an optional tariff.yml and is hot reloaded,
// so owners can adjust slab rates without a restart.
type TariffHolder struct {
	current atomic.Value // holds tariff.Schedule
}

func NewTariffHolder() (*TariffHolder, error) {
	v := viper.New()

	v.SetConfigName("tariff")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/pgdesk/config")
	v.AddConfigPath("/etc/pgdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PGDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &TariffHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(tariff.Default())
		return holder, nil
	}

	var schedule tariff.Schedule
	if err := v.UnmarshalKey("tariff", &schedule); err != nil {
		return nil, err
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	holder.current.Store(schedule)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated tariff.Schedule
		if err := v.UnmarshalKey("tariff", &updated); err != nil {
			log.Printf("[tariff-config] reload failed: %v", err)
			return
		}
		if err := updated.Validate(); err != nil {
			log.Printf("[tariff-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[tariff-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *TariffHolder) Get() tariff.Schedule {
	if s, ok := h.current.Load().(tariff.Schedule); ok {
		return s
	}
	return tariff.Default()
}

// Set replaces the current schedule. Invalid schedules are rejected.
func (h *TariffHolder) Set(s tariff.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	h.current.Store(s)
	return nil
}
