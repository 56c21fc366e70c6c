package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	suture "github.com/thejerf/suture/v4"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yxakbd/YxaManager/background"
	"github.com/yxakbd/YxaManager/host"
	"github.com/yxakbd/YxaManager/supervisor"
	"github.com/yxakbd/YxaManager/util"
)

// Compile time injected variables
var (
	Version = "v0.0.0-dev"
	IsDebug = "yes"
)

type environment struct {
	VendorID  uint16 `env:"YXA_VENDOR_ID"`
	ProductID uint16 `env:"YXA_PRODUCT_ID"`

	Heartbeat   time.Duration `env:"YXA_HEARTBEAT" envDefault:"1s"`
	LogLocation string        `env:"YXA_LOG_FILE" envDefault:"YxaManager.log"`
}

func main() {

	var envs environment
	if err := env.Parse(&envs); err != nil {
		log.Fatalf("[manager] cannot parse environment: %+v\n", err)
	}

	if IsDebug == "no" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   envs.LogLocation,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		})
	}

	log.Printf("YxaManager version: %s\n", Version)

	notifier := background.NewNotifier()

	versionChecker, err := background.NewVersionCheck(Version, "yxakbd/YxaManager", notifier.C)
	if err != nil {
		log.Fatalf("[manager] cannot get version checker: %+v\n", err)
	}

	updates := make(chan host.State, 8)

	monitor, err := host.NewMonitor(host.Config{
		VendorID:          envs.VendorID,
		ProductID:         envs.ProductID,
		Updates:           updates,
		HeartbeatInterval: envs.Heartbeat,
	})
	if err != nil {
		log.Fatalf("[manager] cannot create monitor: %+v\n", err)
	}

	evtHook := &supervisor.EventHook{
		Notifier: notifier.C,
	}

	ctx, cancel := context.WithCancel(context.Background())

	backgroundSupervisor := suture.New("backgroundSupervisor", suture.Spec{})
	backgroundSupervisor.Add(versionChecker)
	backgroundSupervisor.Add(notifier)

	rootSupervisor := suture.New("Supervisor", suture.Spec{
		EventHook: evtHook.Event,
	})
	rootSupervisor.Add(backgroundSupervisor)
	rootSupervisor.Add(monitor)
	rootSupervisor.Add(&stateLogger{updates: updates})

	sigc := make(chan os.Signal, 1)

	go func() {
		notifier.C <- util.Notification{
			Message:   "Starting up YxaManager",
			Immediate: true,
			Delay:     time.Second * 2,
		}
		supervisorErr := rootSupervisor.Serve(ctx)
		if supervisorErr != nil {
			log.Printf("[manager] rootSupervisor returns error: %+v\n", supervisorErr)
			sigc <- syscall.SIGTERM
		}
	}()

	signal.Notify(
		sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	sig := <-sigc
	log.Printf("[manager] signal received: %+v\n", sig)

	cancel()
	time.Sleep(time.Second) // 1 second for grace period
}
