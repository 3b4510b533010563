// Package telemetry pushes gas readings to InfluxDB.
package telemetry

import (
	"context"
	"github.com/callebjorkell/gas-sensor/internal/adc"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	log "github.com/sirupsen/logrus"
	"time"
)

const measurement = "gas"

type Config struct {
	URL    string
	Token  string
	Org    string
	Bucket string
	Sensor string
	Vref   float64
}

type Recorder struct {
	client influxdb2.Client
	writer api.WriteAPIBlocking
	tags   map[string]string
	vref   float64
}

func NewRecorder(c Config) *Recorder {
	log.Infof("Sending readings to %v (bucket %v)", c.URL, c.Bucket)
	client := influxdb2.NewClient(c.URL, c.Token)
	return &Recorder{
		client: client,
		writer: client.WriteAPIBlocking(c.Org, c.Bucket),
		tags:   map[string]string{"sensor": c.Sensor},
		vref:   c.Vref,
	}
}

// Record writes a single reading.
func (r *Recorder) Record(ctx context.Context, s adc.Sample) error {
	fields := map[string]interface{}{
		"raw":   int(s),
		"volts": s.Volts(r.vref),
	}
	point := write.NewPoint(measurement, r.tags, fields, time.Now())
	return r.writer.WritePoint(ctx, point)
}

func (r *Recorder) Close() {
	r.client.Close()
}
