/*
Package session serialises access to the stored answers of form sessions.

Every merge is a read-modify-write of one session; the Manager runs it under a
per-session local lock and, when configured, a distributed lock so replicas
sharing a store never lose an update.
*/
package session
