package domain

import "time"

// CommentChannel identifies where a ticket comment originated.
type CommentChannel string

const (
	ChannelCustomer CommentChannel = "CUSTOMER"
	ChannelStaff    CommentChannel = "STAFF"
	ChannelAdmin    CommentChannel = "ADMIN"
)

// Comment captures one message in a ticket thread.
type Comment struct {
	ID        string
	TicketID  string
	Author    string
	FromStaff bool
	Channel   CommentChannel
	Body      string
	CreatedAt time.Time
}
