package main

import (
	"context"
	"fmt"
	"github.com/callebjorkell/gas-sensor/internal/adc"
	"github.com/callebjorkell/gas-sensor/internal/button"
	"github.com/callebjorkell/gas-sensor/internal/monitor"
	"github.com/callebjorkell/gas-sensor/internal/neopixel"
	"github.com/callebjorkell/gas-sensor/internal/telemetry"
	"github.com/callebjorkell/gas-sensor/internal/uart"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"os"
	"os/signal"
	"syscall"
)

var (
	app        = kingpin.New("gas-sensor", "Shows the reading of a gas sensor on a character LCD")
	debug      = app.Flag("debug", "Turn on debug logging.").Bool()
	configFile = app.Flag("config", "Configuration file.").Default("config.yaml").String()
	run        = app.Command("run", "Start sampling")
	version    = app.Command("version", "Show current version.")
)

type colorFormatter struct {
	log.TextFormatter
}

func (f *colorFormatter) Format(entry *log.Entry) ([]byte, error) {
	var levelColor int
	switch entry.Level {
	case log.DebugLevel, log.TraceLevel:
		levelColor = 90 // dark grey
	case log.WarnLevel:
		levelColor = 33 // yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = 91 // bright red
	default:
		levelColor = 39 // default
	}
	return []byte(fmt.Sprintf("\x1b[%dm%s\x1b[0m\n", levelColor, entry.Message)), nil
}

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	log.SetFormatter(&colorFormatter{})
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	switch cmd {
	case run.FullCommand():
		startMonitor()
	case version.FullCommand():
		showVersion()
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
}

func startMonitor() {
	conf, err := readConfig(*configFile)
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	hw, err := openHardware(conf)
	if err != nil {
		log.Fatal(err)
	}
	defer hw.Close()

	var opts []monitor.Option
	if hw.serial != nil {
		log.Infof("Reporting readings on %v", conf.Serial.Device)
		opts = append(opts, monitor.WithSerial(uart.NewTransmitter(hw.serial)))
	}
	if hw.observer != nil {
		opts = append(opts, monitor.WithObserver(hw.observer))
	}

	if conf.Indicator.Enabled {
		led, err := neopixel.NewLedController(adc.Sample(conf.Indicator.Warn), adc.Sample(conf.Indicator.Alarm))
		if err != nil {
			log.Fatal("Unable to start LED indicator: ", err)
		}
		defer led.Close()
		opts = append(opts, monitor.WithIndicator(led))

		events, err := button.InitButton(conf.Indicator.Button)
		if err != nil {
			log.Fatal(err)
		}
		go func() {
			for e := range events {
				log.Infof("Event: %v", e)
				if e.Pressed {
					led.Acknowledge()
				}
			}
		}()
	}

	if conf.Influx.URL != "" {
		rec := telemetry.NewRecorder(telemetry.Config{
			URL:    conf.Influx.URL,
			Token:  conf.Influx.Token,
			Org:    conf.Influx.Org,
			Bucket: conf.Influx.Bucket,
			Sensor: conf.Influx.Sensor,
			Vref:   conf.ADC.Vref,
		})
		defer rec.Close()
		opts = append(opts, monitor.WithRecorder(rec))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		cancel()
	}()

	m := monitor.New(hw.display, hw.sampler, conf.Monitor(), opts...)
	if err := m.Run(ctx); err != nil {
		log.Error("Monitor stopped: ", err)
	}

	if err := sleeping(hw.display); err != nil {
		log.Warn("Unable to update display: ", err)
	}

	log.Info("Done...")
}

func sleeping(d monitor.Display) error {
	if err := d.Clear(); err != nil {
		return err
	}
	if err := d.SetCursor(1, 1); err != nil {
		return err
	}
	return d.Print("  Sleeping...")
}
