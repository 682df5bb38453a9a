// Package mock provides test doubles shared by the smartspace packages.
package mock
