// Package core defines the shared domain records of the EduMentor system:
// student long-term memory records and their read-only context projection,
// conversation sessions, and the intent taxonomy used for routing.
//
// Records in this package are plain data. All mutation goes through the
// owning stores (memory.Store, session.Store); callers receive defensive
// clones and must never mutate a record obtained from a store.
package core
