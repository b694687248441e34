// Package pubsub fans published messages out to channel subscribers.
//
// Each Subscriber owns a bounded queue that its session drains. Publish never
// blocks: when a queue is full the Hub either drops the oldest pending
// message or marks the subscriber overflowed so its session disconnects.
//
// Messages published to one channel reach every subscriber in publish order.
// Nothing is kept for subscribers that join later.
package pubsub
