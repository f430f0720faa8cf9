// Package eventbus carries the engine and transport lifecycle events on a
// process-wide bus, decoupling the effect pipeline from whoever wants to
// observe it (stats listeners, logging, tests).
package eventbus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
)

var (
	instance evbus.Bus
	asyncBus *AsyncEventBus
	once     sync.Once
)

func initBuses() {
	once.Do(func() {
		instance = evbus.New()
		asyncBus = NewAsyncEventBus(4)
		asyncBus.Start()
	})
}

// Get returns the synchronous bus instance.
func Get() evbus.Bus {
	initBuses()
	return instance
}

// GetAsync returns the asynchronous bus instance.
func GetAsync() *AsyncEventBus {
	initBuses()
	return asyncBus
}

// Publish delivers an event synchronously to all subscribers.
func Publish(topic string, args ...interface{}) {
	Get().Publish(topic, args...)
}

// PublishAsync queues an event for delivery off the caller's goroutine.
func PublishAsync(topic string, args ...interface{}) {
	GetAsync().PublishAsync(topic, args...)
}

// Subscribe registers a handler on the synchronous bus.
func Subscribe(topic string, fn interface{}) error {
	return Get().Subscribe(topic, fn)
}

// SubscribeAsync registers a handler on the asynchronous bus.
func SubscribeAsync(topic string, fn interface{}) error {
	return GetAsync().Subscribe(topic, fn)
}

// Shutdown stops the async workers.
func Shutdown() {
	if asyncBus != nil {
		asyncBus.Stop()
	}
}
