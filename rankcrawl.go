// Package rankcrawl provides a small concurrent crawler that ranks domains
// by visit count. A fixed pool of workers drains a bounded queue of URLs,
// visits each one, tallies the domain it belongs to and feeds follow-up
// URLs back into the queue until a visit budget runs out, a sentinel URL is
// seen or the queue drains.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, bloom/, goquery/).
package rankcrawl
