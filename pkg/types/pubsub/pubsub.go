package pubsub

type Publisher interface {
	Publish(data []byte) error
}

// Subscriber hands out a message channel and a func that releases it.
type Subscriber interface {
	Subscribe() (<-chan []byte, func(), error)
}

type PubSub interface {
	Publisher
	Subscriber
}
