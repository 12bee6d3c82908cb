// Copyright 2025 The Catalyst Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package names

// Word lists for memorable environment names. Every entry is lowercase ASCII
// letters only and at most nine characters, so the longest possible
// "adjective-noun-NN" combination stays well under the 63 character namespace
// limit without further sanitizing.
var adjectives = []string{
	"agile", "amber", "ancient", "bold", "brave", "bright", "brisk",
	"calm", "clever", "cosmic", "crimson", "curious", "daring", "deft",
	"eager", "early", "fierce", "fleet", "gentle", "gifted", "golden",
	"happy", "hidden", "humble", "jolly", "keen", "lively", "lucid",
	"lunar", "mellow", "mighty", "nimble", "noble", "polar", "proud",
	"quick", "quiet", "rapid", "rustic", "silent", "silver", "solar",
	"stable", "steady", "swift", "vivid", "wise", "witty",
}

var nouns = []string{
	"badger", "beacon", "bison", "canyon", "comet", "condor", "coral",
	"crane", "cricket", "dolphin", "eagle", "ember", "falcon", "fern",
	"finch", "fjord", "fox", "gecko", "glacier", "harbor", "hawk",
	"heron", "ibis", "jaguar", "koala", "lagoon", "lemur", "lynx",
	"marmot", "meadow", "meteor", "narwhal", "nebula", "orca", "osprey",
	"otter", "panda", "pebble", "petrel", "puffin", "quartz", "raven",
	"reef", "sparrow", "summit", "tundra", "walrus", "wren",
}
