package pubsub

// Pack is one published message. Key is the room id, Msg the serialized
// event.
type Pack struct {
	Key []byte
	Msg []byte
}
