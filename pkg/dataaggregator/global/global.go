package global

import (
	"github.com/smartbus/routeplanner/pkg/dataaggregator"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source/databaselookup"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source/mockplanner"
	"github.com/smartbus/routeplanner/pkg/redis_client"
	"github.com/smartbus/routeplanner/pkg/util"
)

func Setup() error {
	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}

	env := util.GetEnvironmentVariables()

	payload := mockplanner.DefaultPayload()
	if env["SMARTBUS_MOCK_ROUTES"] != "" {
		var err error
		payload, err = mockplanner.LoadPayload(env["SMARTBUS_MOCK_ROUTES"])
		if err != nil {
			return err
		}
	}

	var routePlanner dataaggregator.DataSource = mockplanner.Source{Payload: payload}

	if redis_client.Connected() {
		cache := &cachedresults.Cache{}
		cache.Setup(redis_client.Client)

		routePlanner = cachedresults.Source{Cache: cache, Source: routePlanner}
	}

	dataaggregator.GlobalAggregator.RegisterSource(routePlanner)
	dataaggregator.GlobalAggregator.RegisterSource(databaselookup.Source{})

	return nil
}
