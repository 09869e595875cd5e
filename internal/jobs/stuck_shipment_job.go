package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"shipping-engine/internal/events"
	"shipping-engine/internal/services"
)

// StuckShipmentJob periodically refreshes carrier statuses for open
// shipments and flags the ones without movement past the stuck
// threshold.
type StuckShipmentJob struct {
	fulfillment services.FulfillmentService
	publisher   *events.Publisher
	cron        *cron.Cron
	schedule    string
	logger      *logrus.Entry
}

// NewStuckShipmentJob creates the sweep job. An empty schedule defaults
// to hourly.
func NewStuckShipmentJob(fulfillment services.FulfillmentService, publisher *events.Publisher, schedule string, logger *logrus.Logger) *StuckShipmentJob {
	if schedule == "" {
		schedule = "@hourly"
	}
	return &StuckShipmentJob{
		fulfillment: fulfillment,
		publisher:   publisher,
		cron:        cron.New(),
		schedule:    schedule,
		logger:      logger.WithField("component", "stuck_shipment_job"),
	}
}

// Start schedules the sweep
func (j *StuckShipmentJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("Stuck shipment job started")
	return nil
}

// Stop stops the sweep
func (j *StuckShipmentJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Stuck shipment job stopped")
}

func (j *StuckShipmentJob) run() {
	ctx := context.Background()

	if err := j.fulfillment.RefreshStatuses(ctx); err != nil {
		j.logger.WithError(err).Error("Status refresh failed")
	}

	stuck, err := j.fulfillment.ListStuckShipments(ctx)
	if err != nil {
		j.logger.WithError(err).Error("Stuck shipment sweep failed")
		return
	}

	for _, shipment := range stuck {
		j.logger.WithFields(logrus.Fields{
			"trackingCode": shipment.TrackingCode,
			"status":       shipment.Status,
			"lastMovement": shipment.LastMovementDate,
		}).Warn("Shipment without movement past threshold")

		j.publisher.PublishStuckDetected(
			shipment.ID.String(),
			shipment.TrackingCode,
			string(shipment.Status),
			fmt.Sprintf("no movement since %s", shipment.LastMovementDate.Format("2006-01-02 15:04")),
		)
	}

	if len(stuck) > 0 {
		j.logger.WithField("count", len(stuck)).Info("Stuck shipment sweep completed")
	}
}
