package main

import (
	"context"
	"log"

	"github.com/yxakbd/YxaManager/client"
	"github.com/yxakbd/YxaManager/host"
	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
)

func main() {
	updates := make(chan host.State, 8)

	monitor, err := host.NewMonitor(host.Config{
		Updates: updates,
	})
	if err != nil {
		log.Fatalf("[trainer] cannot create monitor: %+v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := monitor.Serve(ctx); err != nil {
			log.Printf("[trainer] monitor stopped: %+v\n", err)
			cancel()
		}
	}()

	trainer := client.NewTrainer(keymap.Miryoku(keycode.ClipboardX11), updates)

	trainer.Serve(ctx)
}
