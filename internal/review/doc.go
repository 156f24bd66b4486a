// Package review holds the review pipeline stages that do not talk to the
// network themselves: the size gate, the request builder, the response
// validator and the bounded retry loop around a model chat session.
package review
