package app

import (
	"os"
	"strings"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/realtime/bus"
	"github.com/praxishq/praxis-backend/internal/temporalx"
)

type Clients struct {
	Temporal temporalsdkclient.Client
	SSEBus   bus.Bus
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients")

	tc, err := temporalx.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	var sseBus bus.Bus
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		sseBus, err = bus.NewRedisBus(log)
		if err != nil {
			if tc != nil {
				tc.Close()
			}
			return Clients{}, err
		}
	}

	return Clients{Temporal: tc, SSEBus: sseBus}, nil
}

func (c Clients) Close() {
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
}
