// Package mqtt provides MQTT client connectivity for Scene Cycler.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Scene Cycler uses MQTT as the link between the cycling core and the
// host application's shim. The shim mirrors the host's scene catalog and
// hotkey subsystem onto the scenecycler/host/… topics and consumes
// selection commands and hotkey registrations from the cycler.
//
//	Scene Cycler ↔ MQTT Broker ↔ Host shim
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topics := mqtt.Topics{}
//	err = client.Subscribe(topics.AllHostEvents(), 1,
//	    func(topic string, payload []byte) error {
//	        // trigger reconcile
//	        return nil
//	    })
package mqtt
